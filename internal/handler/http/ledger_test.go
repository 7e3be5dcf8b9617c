package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/audit"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/ledger"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/orders"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/jwt"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/sse"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type fakeLedgerService struct {
	generateReqs []ledger.GenerateLedgerRequest
	generateResp *ledger.GenerateLedgerResponse
	generateErr  error

	listFilter ledger.LedgerFilter
	listResp   []ledger.LedgerEntryResponse
	listTotal  int64

	updateIDs  []string
	updateReqs []ledger.UpdateLedgerEntryRequest
	updateResp *ledger.LedgerEntryResponse
	updateErr  error

	approveReqs  []ledger.ApproveLedgerRequest
	approveCount int64
	approveErr   error

	reopenResp *ledger.LedgerEntryResponse

	summaryMonth int
	summaryYear  int
	summaryResp  *ledger.SummaryResponse
	summaryErr   error
}

func (f *fakeLedgerService) Generate(ctx context.Context, req ledger.GenerateLedgerRequest) (*ledger.GenerateLedgerResponse, error) {
	f.generateReqs = append(f.generateReqs, req)
	return f.generateResp, f.generateErr
}

func (f *fakeLedgerService) List(ctx context.Context, filter ledger.LedgerFilter) ([]ledger.LedgerEntryResponse, int64, error) {
	f.listFilter = filter
	return f.listResp, f.listTotal, nil
}

func (f *fakeLedgerService) GetByID(ctx context.Context, id string) (*ledger.LedgerEntryResponse, error) {
	return nil, ledger.ErrLedgerEntryNotFound
}

func (f *fakeLedgerService) Update(ctx context.Context, id string, req ledger.UpdateLedgerEntryRequest) (*ledger.LedgerEntryResponse, error) {
	f.updateIDs = append(f.updateIDs, id)
	f.updateReqs = append(f.updateReqs, req)
	return f.updateResp, f.updateErr
}

func (f *fakeLedgerService) Approve(ctx context.Context, req ledger.ApproveLedgerRequest) (int64, error) {
	f.approveReqs = append(f.approveReqs, req)
	return f.approveCount, f.approveErr
}

func (f *fakeLedgerService) Reopen(ctx context.Context, id string) (*ledger.LedgerEntryResponse, error) {
	if f.reopenResp == nil {
		return nil, ledger.ErrLedgerEntryNotFound
	}
	return f.reopenResp, nil
}

func (f *fakeLedgerService) Summary(ctx context.Context, month, year int) (*ledger.SummaryResponse, error) {
	f.summaryMonth = month
	f.summaryYear = year
	return f.summaryResp, f.summaryErr
}

type fakeAuditService struct {
	recorded []audit.AuditEntry
}

func (f *fakeAuditService) Record(ctx context.Context, entry audit.AuditEntry) {
	f.recorded = append(f.recorded, entry)
}

func (f *fakeAuditService) ListByPeriod(ctx context.Context, month, year, limit int) ([]audit.AuditEntryResponse, error) {
	return nil, nil
}

func newLedgerTestHandler(ledgerSvc *fakeLedgerService, auditSvc *fakeAuditService) (LedgerHandler, jwt.Service, *sse.Hub) {
	jwtSvc := jwt.NewJWTService(handlerTestSecret)
	hub := sse.NewHub()
	return NewLedgerHandler(ledgerSvc, auditSvc, jwtSvc, hub), jwtSvc, hub
}

// reviewerContext builds a request context carrying verified manager
// claims, the same shape the auth middleware leaves behind.
func reviewerContext(t *testing.T, ctx context.Context) context.Context {
	t.Helper()

	ja := jwtauth.New("HS256", []byte(handlerTestSecret), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id": "user-9",
		"name":    "Dana Reed",
		"role":    "manager",
		"type":    "access",
	})
	require.NoError(t, err)

	return jwtauth.NewContext(ctx, token, nil)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// ===== HANDLER TESTS =====

func TestLedgerHandler_Generate_Success(t *testing.T) {
	ledgerSvc := &fakeLedgerService{
		generateResp: &ledger.GenerateLedgerResponse{
			RunID:       "run-1",
			PeriodMonth: 3,
			PeriodYear:  2025,
			Entries: []ledger.LedgerEntryResponse{
				{ID: "entry-1", RepresentativeID: "rep-1", PeriodMonth: 3, PeriodYear: 2025},
				{ID: "entry-2", RepresentativeID: "rep-2", PeriodMonth: 3, PeriodYear: 2025},
			},
			UnmatchedNames: []string{"John Smyth"},
			ApprovedDrift:  []ledger.ApprovedDrift{},
		},
	}
	auditSvc := &fakeAuditService{}
	handler, _, _ := newLedgerTestHandler(ledgerSvc, auditSvc)

	body, _ := json.Marshal(ledger.GenerateLedgerRequest{Month: 3, Year: 2025})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compensation/ledger/generate", bytes.NewReader(body))
	req = req.WithContext(reviewerContext(t, req.Context()))
	w := httptest.NewRecorder()

	handler.Generate(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.True(t, resp["success"].(bool))
	assert.Equal(t, "Ledger generated", resp["message"])

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "run-1", data["run_id"])
	assert.Len(t, data["entries"].([]interface{}), 2)
	assert.Equal(t, []interface{}{"John Smyth"}, data["unmatched_names"])

	require.Len(t, ledgerSvc.generateReqs, 1)
	assert.Equal(t, 3, ledgerSvc.generateReqs[0].Month)

	require.Len(t, auditSvc.recorded, 1)
	entry := auditSvc.recorded[0]
	assert.Equal(t, audit.ActionLedgerGenerate, entry.Action)
	assert.Equal(t, "user-9", entry.ActorID)
	assert.Equal(t, "Dana Reed", entry.ActorName)
	require.NotNil(t, entry.RunID)
	assert.Equal(t, "run-1", *entry.RunID)
	assert.Equal(t, 2, entry.Detail["entry_count"])
	assert.Equal(t, 1, entry.Detail["unmatched"])
}

func TestLedgerHandler_Generate_InvalidJSON(t *testing.T) {
	ledgerSvc := &fakeLedgerService{}
	auditSvc := &fakeAuditService{}
	handler, _, _ := newLedgerTestHandler(ledgerSvc, auditSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/compensation/ledger/generate", bytes.NewReader([]byte("not json")))
	req = req.WithContext(reviewerContext(t, req.Context()))
	w := httptest.NewRecorder()

	handler.Generate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.False(t, resp["success"].(bool))
	assert.Empty(t, ledgerSvc.generateReqs)
	assert.Empty(t, auditSvc.recorded)
}

func TestLedgerHandler_Generate_SourceUnavailable(t *testing.T) {
	ledgerSvc := &fakeLedgerService{generateErr: orders.ErrSourceUnavailable}
	auditSvc := &fakeAuditService{}
	handler, _, _ := newLedgerTestHandler(ledgerSvc, auditSvc)

	body, _ := json.Marshal(ledger.GenerateLedgerRequest{Month: 3, Year: 2025})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compensation/ledger/generate", bytes.NewReader(body))
	req = req.WithContext(reviewerContext(t, req.Context()))
	w := httptest.NewRecorder()

	handler.Generate(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.False(t, resp["success"].(bool))

	errDetail := resp["error"].(map[string]interface{})
	assert.Equal(t, "BAD_GATEWAY", errDetail["code"])
	assert.Empty(t, auditSvc.recorded)
}

func TestLedgerHandler_List_ClampsPagination(t *testing.T) {
	ledgerSvc := &fakeLedgerService{
		listResp:  []ledger.LedgerEntryResponse{{ID: "entry-1"}},
		listTotal: 45,
	}
	handler, _, _ := newLedgerTestHandler(ledgerSvc, &fakeAuditService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/compensation/ledger?month=3&year=2025&page=0&limit=1000", nil)
	req = req.WithContext(reviewerContext(t, req.Context()))
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, ledgerSvc.listFilter.Month)
	assert.Equal(t, 2025, ledgerSvc.listFilter.Year)
	assert.Equal(t, 1, ledgerSvc.listFilter.Page)
	assert.Equal(t, 20, ledgerSvc.listFilter.Limit)

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)

	meta := resp["meta"].(map[string]interface{})
	assert.Equal(t, float64(45), meta["total_items"])
	assert.Equal(t, float64(3), meta["total_pages"])
}

func TestLedgerHandler_Update_RecordsChangedFields(t *testing.T) {
	adjustment := decimal.RequireFromString("-200")
	ledgerSvc := &fakeLedgerService{
		updateResp: &ledger.LedgerEntryResponse{
			ID:          "entry-1",
			PeriodMonth: 3,
			PeriodYear:  2025,
			Adjustment:  adjustment,
		},
	}
	auditSvc := &fakeAuditService{}
	handler, _, _ := newLedgerTestHandler(ledgerSvc, auditSvc)

	body := []byte(`{"adjustment": "-200"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/compensation/ledger/entry-1", bytes.NewReader(body))
	req = req.WithContext(reviewerContext(t, req.Context()))
	req = withURLParam(req, "id", "entry-1")
	w := httptest.NewRecorder()

	handler.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, ledgerSvc.updateIDs, 1)
	assert.Equal(t, "entry-1", ledgerSvc.updateIDs[0])

	require.Len(t, auditSvc.recorded, 1)
	entry := auditSvc.recorded[0]
	assert.Equal(t, audit.ActionLedgerOverride, entry.Action)
	assert.Equal(t, "-200", entry.Detail["adjustment"])
	_, hasDeduction := entry.Detail["cancellation_deduction"]
	assert.False(t, hasDeduction)
	_, hasNotes := entry.Detail["notes_changed"]
	assert.False(t, hasNotes)
}

func TestLedgerHandler_Update_MissingID(t *testing.T) {
	ledgerSvc := &fakeLedgerService{}
	handler, _, _ := newLedgerTestHandler(ledgerSvc, &fakeAuditService{})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/compensation/ledger/", bytes.NewReader([]byte(`{}`)))
	req = req.WithContext(reviewerContext(t, req.Context()))
	w := httptest.NewRecorder()

	handler.Update(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, ledgerSvc.updateIDs)
}

func TestLedgerHandler_Approve_ReturnsCount(t *testing.T) {
	ledgerSvc := &fakeLedgerService{approveCount: 2}
	auditSvc := &fakeAuditService{}
	handler, _, _ := newLedgerTestHandler(ledgerSvc, auditSvc)

	body, _ := json.Marshal(ledger.ApproveLedgerRequest{EntryIDs: []string{"entry-1", "entry-2"}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compensation/ledger/approve", bytes.NewReader(body))
	req = req.WithContext(reviewerContext(t, req.Context()))
	w := httptest.NewRecorder()

	handler.Approve(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.True(t, resp["success"].(bool))

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["approved_count"])

	require.Len(t, auditSvc.recorded, 1)
	assert.Equal(t, audit.ActionLedgerApprove, auditSvc.recorded[0].Action)
	assert.Equal(t, 2, auditSvc.recorded[0].Detail["requested"])
}

func TestLedgerHandler_Approve_AlreadyApprovedIsConflict(t *testing.T) {
	ledgerSvc := &fakeLedgerService{approveErr: ledger.ErrLedgerEntryAlreadyApproved}
	auditSvc := &fakeAuditService{}
	handler, _, _ := newLedgerTestHandler(ledgerSvc, auditSvc)

	body, _ := json.Marshal(ledger.ApproveLedgerRequest{EntryIDs: []string{"entry-1"}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compensation/ledger/approve", bytes.NewReader(body))
	req = req.WithContext(reviewerContext(t, req.Context()))
	w := httptest.NewRecorder()

	handler.Approve(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, auditSvc.recorded)
}

func TestLedgerHandler_Reopen_RecordsAudit(t *testing.T) {
	ledgerSvc := &fakeLedgerService{
		reopenResp: &ledger.LedgerEntryResponse{ID: "entry-1", PeriodMonth: 3, PeriodYear: 2025, Status: "pending"},
	}
	auditSvc := &fakeAuditService{}
	handler, _, _ := newLedgerTestHandler(ledgerSvc, auditSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/compensation/ledger/entry-1/reopen", nil)
	req = req.WithContext(reviewerContext(t, req.Context()))
	req = withURLParam(req, "id", "entry-1")
	w := httptest.NewRecorder()

	handler.Reopen(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, auditSvc.recorded, 1)
	assert.Equal(t, audit.ActionLedgerReopen, auditSvc.recorded[0].Action)
	require.NotNil(t, auditSvc.recorded[0].EntityID)
	assert.Equal(t, "entry-1", *auditSvc.recorded[0].EntityID)
}

func TestLedgerHandler_Summary_DefaultsToCurrentPeriod(t *testing.T) {
	ledgerSvc := &fakeLedgerService{summaryResp: &ledger.SummaryResponse{}}
	handler, _, _ := newLedgerTestHandler(ledgerSvc, &fakeAuditService{})

	now := time.Now().UTC()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/compensation/summary", nil)
	req = req.WithContext(reviewerContext(t, req.Context()))
	w := httptest.NewRecorder()

	handler.Summary(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int(now.Month()), ledgerSvc.summaryMonth)
	assert.Equal(t, now.Year(), ledgerSvc.summaryYear)
}

func TestLedgerHandler_Summary_PassesExplicitPeriod(t *testing.T) {
	ledgerSvc := &fakeLedgerService{summaryResp: &ledger.SummaryResponse{PeriodMonth: 2, PeriodYear: 2024}}
	handler, _, _ := newLedgerTestHandler(ledgerSvc, &fakeAuditService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/compensation/summary?month=2&year=2024", nil)
	req = req.WithContext(reviewerContext(t, req.Context()))
	w := httptest.NewRecorder()

	handler.Summary(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, ledgerSvc.summaryMonth)
	assert.Equal(t, 2024, ledgerSvc.summaryYear)
}

func TestLedgerHandler_GetSSEToken_RequiresAuth(t *testing.T) {
	handler, _, _ := newLedgerTestHandler(&fakeLedgerService{}, &fakeAuditService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/compensation/sse-token", nil)
	w := httptest.NewRecorder()

	handler.GetSSEToken(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLedgerHandler_GetSSEToken_Success(t *testing.T) {
	handler, _, _ := newLedgerTestHandler(&fakeLedgerService{}, &fakeAuditService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/compensation/sse-token", nil)
	req = req.WithContext(reviewerContext(t, req.Context()))
	w := httptest.NewRecorder()

	handler.GetSSEToken(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)

	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	assert.Greater(t, data["expires_in"], float64(0))
}

func TestLedgerHandler_Events_RejectsMissingToken(t *testing.T) {
	handler, _, _ := newLedgerTestHandler(&fakeLedgerService{}, &fakeAuditService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/compensation/events", nil)
	w := httptest.NewRecorder()

	handler.Events(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLedgerHandler_Events_RejectsBadToken(t *testing.T) {
	handler, _, _ := newLedgerTestHandler(&fakeLedgerService{}, &fakeAuditService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/compensation/events?token=garbage", nil)
	w := httptest.NewRecorder()

	handler.Events(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLedgerHandler_Events_SendsConnectedEvent(t *testing.T) {
	handler, jwtSvc, _ := newLedgerTestHandler(&fakeLedgerService{}, &fakeAuditService{})

	token, _, err := jwtSvc.GenerateSSEToken("user-9")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/compensation/events?token="+token, nil)
	// A cancelled context makes the stream return right after the
	// handshake instead of blocking on the event loop.
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	handler.Events(w, req)

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "event: connected")
	assert.Contains(t, w.Body.String(), `"user_id":"user-9"`)
}
