package shedsuite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/orders"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/representative"
)

func TestClient_FetchOrders_FollowsPagination(t *testing.T) {
	var gotAuth string
	var gotPages []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPages = append(gotPages, r.URL.Query().Get("page"))

		assert.Equal(t, "2025-03-01", r.URL.Query().Get("sold_from"))
		assert.Equal(t, "2025-04-01", r.URL.Query().Get("sold_to"))
		assert.Equal(t, "2", r.URL.Query().Get("page_size"))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `{"orders":[{"id":"o-1","sales_person_name":"Dave Grohl","status":"sold","total_amount":"40000"},{"id":"o-2","sales_person_name":"Patti Smith","status":"sold","total_amount":"35000.50"}],"has_more":true}`)
		case "2":
			fmt.Fprint(w, `{"orders":[{"id":"o-3","sales_person_name":"Dave Grohl","status":"cancelled","total_amount":"12000"}],"has_more":false}`)
		default:
			t.Errorf("unexpected page requested: %s", r.URL.Query().Get("page"))
		}
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "test-key", PageSize: 2})

	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	rows, err := client.FetchOrders(context.Background(), from, to)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, []string{"1", "2"}, gotPages)
	require.Len(t, rows, 3)
	assert.Equal(t, "o-1", rows[0].OrderID)
	assert.Equal(t, "Dave Grohl", rows[0].SalesPerson)
	assert.Equal(t, "cancelled", rows[2].Status)
}

func TestClient_FetchOrders_ServerErrorIsSourceUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "test-key"})

	_, err := client.FetchOrders(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, orders.ErrSourceUnavailable))
}

func TestClient_FetchOrders_ConnectionRefusedIsSourceUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "test-key"})

	_, err := client.FetchOrders(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, orders.ErrSourceUnavailable))
}

func TestClient_FetchOrders_MalformedBodyIsSourceUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"orders": [`)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "test-key"})

	_, err := client.FetchOrders(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, orders.ErrSourceUnavailable))
}

type stubRepRepo struct {
	reps []representative.Representative
	err  error
}

func (s *stubRepRepo) GetByID(ctx context.Context, id string) (*representative.Representative, error) {
	return nil, representative.ErrRepresentativeNotFound
}

func (s *stubRepRepo) ListActive(ctx context.Context) ([]representative.Representative, error) {
	return s.reps, s.err
}

func (s *stubRepRepo) List(ctx context.Context, filter representative.RepresentativeFilter) ([]representative.Representative, int, error) {
	return s.reps, len(s.reps), s.err
}

func (s *stubRepRepo) ListOffices(ctx context.Context) ([]string, error) {
	return nil, s.err
}

func TestStatsSource_AggregateForPeriod_ReconcilesAgainstRoster(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-03-01", r.URL.Query().Get("sold_from"))
		assert.Equal(t, "2025-04-01", r.URL.Query().Get("sold_to"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"orders":[
			{"id":"o-1","sales_person_name":"dave GROHL","status":"sold","total_amount":"40000"},
			{"id":"o-2","sales_person_name":"Unknown Person","status":"sold","total_amount":"1000"},
			{"id":"o-3","sales_person_name":"Dave Grohl","status":"cancelled","total_amount":"99999"}
		],"has_more":false}`)
	}))
	defer server.Close()

	repRepo := &stubRepRepo{reps: []representative.Representative{
		{ID: "rep-1", FullName: "Dave Grohl", Office: "Tulsa", Status: representative.StatusActive},
	}}

	source := NewStatsSource(NewClient(Config{BaseURL: server.URL, APIKey: "k"}), repRepo)

	result, err := source.AggregateForPeriod(context.Background(), 3, 2025)
	require.NoError(t, err)

	require.Len(t, result.Stats, 1)
	assert.Equal(t, 1, result.Stats["rep-1"].BuildingsSold)
	assert.Equal(t, "40000", result.Stats["rep-1"].TotalOrderAmount.String())
	assert.Equal(t, []string{"Unknown Person"}, result.UnmatchedNames)
}

func TestStatsSource_AggregateForPeriod_RosterFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"orders":[],"has_more":false}`)
	}))
	defer server.Close()

	repRepo := &stubRepRepo{err: errors.New("db down")}
	source := NewStatsSource(NewClient(Config{BaseURL: server.URL, APIKey: "k"}), repRepo)

	_, err := source.AggregateForPeriod(context.Background(), 3, 2025)
	require.Error(t, err)
}
