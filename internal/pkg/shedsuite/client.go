package shedsuite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/orders"
)

const (
	defaultTimeout  = 15 * time.Second
	defaultPageSize = 200
	maxResponseSize = 10 << 20 // 10MB
)

type Config struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	PageSize int
}

// Client talks to the ShedSuite order API. Every failure is wrapped in
// orders.ErrSourceUnavailable so callers can fail a generation run
// before anything is written.
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		pageSize: pageSize,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// orderRecord is the wire shape of one ShedSuite order, trimmed to the
// fields aggregation consumes.
type orderRecord struct {
	ID              string          `json:"id"`
	SalesPersonName string          `json:"sales_person_name"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

type ordersPage struct {
	Orders  []orderRecord `json:"orders"`
	HasMore bool          `json:"has_more"`
}

// FetchOrders pulls every order sold inside [from, to), following
// pagination until the API reports no more pages. to is exclusive, so
// a calendar month is [first of month, first of next month).
func (c *Client) FetchOrders(ctx context.Context, from, to time.Time) ([]orders.ExternalOrder, error) {
	var all []orders.ExternalOrder

	for page := 1; ; page++ {
		p, err := c.fetchPage(ctx, from, to, page)
		if err != nil {
			return nil, err
		}

		for _, rec := range p.Orders {
			all = append(all, orders.ExternalOrder{
				OrderID:     rec.ID,
				SalesPerson: rec.SalesPersonName,
				Status:      rec.Status,
				TotalAmount: rec.TotalAmount,
			})
		}

		if !p.HasMore {
			return all, nil
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, from, to time.Time, page int) (*ordersPage, error) {
	query := url.Values{}
	query.Set("sold_from", from.Format("2006-01-02"))
	query.Set("sold_to", to.Format("2006-01-02"))
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(c.pageSize))

	endpoint := fmt.Sprintf("%s/api/v1/orders?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build orders request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", orders.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", orders.ErrSourceUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", orders.ErrSourceUnavailable, resp.StatusCode)
	}

	var result ordersPage
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", orders.ErrSourceUnavailable, err)
	}

	return &result, nil
}
