// Package api implements the typed HTTP client for the budget backend. All
// money values cross the wire as decimal strings; the client never computes
// aggregates itself, it only decodes what the backend derived.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"kharcha/internal/cache"
	"kharcha/internal/core"
	"kharcha/internal/log"
)

// TokenStore persists the JWT pair between requests. Implementations live in
// internal/session.
type TokenStore interface {
	Tokens(ctx context.Context) (access, refresh string, err error)
	SetAccess(ctx context.Context, access string) error
	SetTokens(ctx context.Context, access, refresh string) error
}

const (
	insightsCacheSize = 12
	insightsCacheTTL  = 5 * time.Minute
)

// Client talks to the budget backend. A 401 on an authenticated call triggers
// a single token refresh shared across concurrent callers, then one retry.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	store    TokenStore
	logger   *log.Logger
	refresh  singleflight.Group
	insights *cache.LRU[[]core.Insight]
}

// New creates a Client for the given base URL, e.g.
// "http://localhost:8000/api/". The trailing slash is added if missing.
func New(baseURL string, timeout time.Duration, store TokenStore, logger *log.Logger) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	return &Client{
		baseURL:  u,
		http:     &http.Client{Timeout: timeout},
		store:    store,
		logger:   logger.WithComponent(log.ComponentAPI),
		insights: cache.NewLRU[[]core.Insight](insightsCacheSize, insightsCacheTTL),
	}, nil
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Register creates a backend account. Unauthenticated.
func (c *Client) Register(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return c.do(ctx, http.MethodPost, "register/", nil, body, nil, false)
}

// ObtainToken exchanges credentials for a JWT pair and persists it.
func (c *Client) ObtainToken(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	var pair tokenPair
	if err := c.do(ctx, http.MethodPost, "token/", nil, body, &pair, false); err != nil {
		return err
	}
	return c.store.SetTokens(ctx, pair.Access, pair.Refresh)
}

// DashboardSummary fetches the derived snapshot for a period.
func (c *Client) DashboardSummary(ctx context.Context, p core.Period) (core.DashboardSummary, error) {
	var out core.DashboardSummary
	err := c.do(ctx, http.MethodGet, "dashboard/", periodQuery(p), nil, &out, true)
	return out, err
}

// CurrentDashboardSummary fetches the snapshot for the backend's current
// month. Used for post-create advisories, which always speak to the present.
func (c *Client) CurrentDashboardSummary(ctx context.Context) (core.DashboardSummary, error) {
	var out core.DashboardSummary
	err := c.do(ctx, http.MethodGet, "dashboard/", nil, nil, &out, true)
	return out, err
}

// Expenses lists the expenses recorded in a period, newest first as returned
// by the backend.
func (c *Client) Expenses(ctx context.Context, p core.Period) ([]core.Expense, error) {
	var out []core.Expense
	err := c.do(ctx, http.MethodGet, "expenses/", periodQuery(p), nil, &out, true)
	return out, err
}

// Budgets lists the category budgets in effect for a period.
func (c *Client) Budgets(ctx context.Context, p core.Period) ([]core.Budget, error) {
	var out []core.Budget
	err := c.do(ctx, http.MethodGet, "budgets/", periodQuery(p), nil, &out, true)
	return out, err
}

// Insights fetches the backend's textual observations for a period. Results
// are memoized per period; any mutation flushes the memo.
func (c *Client) Insights(ctx context.Context, p core.Period) ([]core.Insight, error) {
	key := p.String()
	if cached, ok := c.insights.Get(key); ok {
		return cached, nil
	}
	var out []core.Insight
	if err := c.do(ctx, http.MethodGet, "insights/", periodQuery(p), nil, &out, true); err != nil {
		return nil, err
	}
	c.insights.Set(key, out)
	return out, nil
}

// FlushInsights drops all memoized insights. Must be called after every
// mutation so re-fetches observe the new server state.
func (c *Client) FlushInsights() {
	c.insights.Flush()
}

// CreateExpense records a new expense.
func (c *Client) CreateExpense(ctx context.Context, e core.Expense) error {
	defer c.FlushInsights()
	body := map[string]any{
		"amount":       e.Amount,
		"category":     e.Category,
		"note":         e.Note,
		"is_recurring": e.IsRecurring,
	}
	if e.IsRecurring {
		body["recurrence_day"] = e.RecurrenceDay
	}
	if !e.Date.IsZero() {
		body["date"] = e.Date
	}
	return c.do(ctx, http.MethodPost, "expenses/", nil, body, nil, true)
}

// UpdateExpense changes the amount and note of an existing expense. Category
// and recurrence are fixed at creation.
func (c *Client) UpdateExpense(ctx context.Context, id int64, amount core.Money, note string) error {
	defer c.FlushInsights()
	body := map[string]any{"amount": amount, "note": note}
	path := fmt.Sprintf("expenses/%d/update/", id)
	return c.do(ctx, http.MethodPut, path, nil, body, nil, true)
}

// DeleteExpense removes an expense.
func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	defer c.FlushInsights()
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("expenses/%d/", id), nil, nil, nil, true)
}

// MaterializeRecurring asks the backend to instantiate any recurring expenses
// due in the current month. Idempotent on the server side.
func (c *Client) MaterializeRecurring(ctx context.Context) error {
	defer c.FlushInsights()
	return c.do(ctx, http.MethodPost, "expenses/generate-recurring/", nil, nil, nil, true)
}

// CreateBudget sets a monthly limit for a category.
func (c *Client) CreateBudget(ctx context.Context, category core.Category, amount core.Money) error {
	defer c.FlushInsights()
	body := map[string]any{"category": category, "amount": amount}
	return c.do(ctx, http.MethodPost, "budgets/", nil, body, nil, true)
}

// UpdateBudget changes the limit of an existing budget.
func (c *Client) UpdateBudget(ctx context.Context, id int64, amount core.Money) error {
	defer c.FlushInsights()
	body := map[string]any{"amount": amount}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("budgets/%d/", id), nil, body, nil, true)
}

// DeleteBudget removes a category budget.
func (c *Client) DeleteBudget(ctx context.Context, id int64) error {
	defer c.FlushInsights()
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("budgets/%d/", id), nil, nil, nil, true)
}

// SetIncome records the monthly income used by the overspend calculations.
func (c *Client) SetIncome(ctx context.Context, amount core.Money) error {
	defer c.FlushInsights()
	body := map[string]any{"amount": amount}
	return c.do(ctx, http.MethodPost, "income/", nil, body, nil, true)
}

func periodQuery(p core.Period) url.Values {
	q := url.Values{}
	q.Set("year", strconv.Itoa(p.Year))
	q.Set("month", strconv.Itoa(p.Month))
	return q
}

// do performs one request, decoding a 2xx JSON body into out when non-nil.
// Authenticated requests that hit a 401 go through refreshAccess once and are
// retried with the new token.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	status, respBody, err := c.send(ctx, method, path, query, payload, authed)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && authed {
		if err := c.refreshAccess(ctx); err != nil {
			return err
		}
		status, respBody, err = c.send(ctx, method, path, query, payload, authed)
		if err != nil {
			return err
		}
	}

	if status >= 200 && status < 300 {
		if out == nil || len(respBody) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding %s response: %w", path, err)
		}
		return nil
	}
	return c.statusError(path, status, respBody)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, authed bool) (int, []byte, error) {
	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return 0, nil, fmt.Errorf("building request for %s: %w", path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		access, _, err := c.store.Tokens(ctx)
		if err != nil {
			return 0, nil, fmt.Errorf("loading session tokens: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &TransportError{Endpoint: path, Err: err}
	}
	return resp.StatusCode, respBody, nil
}

// refreshAccess exchanges the stored refresh token for a new access token.
// Concurrent callers share a single exchange via singleflight.
func (c *Client) refreshAccess(ctx context.Context) error {
	_, err, _ := c.refresh.Do("refresh", func() (any, error) {
		_, refreshToken, err := c.store.Tokens(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading session tokens: %w", err)
		}
		if refreshToken == "" {
			return nil, &AuthError{StatusCode: http.StatusUnauthorized, Detail: "no refresh token"}
		}

		payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
		if err != nil {
			return nil, err
		}
		status, respBody, err := c.send(ctx, http.MethodPost, "token/refresh/", nil, payload, false)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, &AuthError{StatusCode: status, Detail: errorDetail(respBody)}
		}

		var pair tokenPair
		if err := json.Unmarshal(respBody, &pair); err != nil {
			return nil, fmt.Errorf("decoding refresh response: %w", err)
		}
		c.logger.InfoContext(ctx, "access token refreshed")
		if pair.Refresh != "" {
			return nil, c.store.SetTokens(ctx, pair.Access, pair.Refresh)
		}
		return nil, c.store.SetAccess(ctx, pair.Access)
	})
	return err
}

func (c *Client) statusError(path string, status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{StatusCode: status, Detail: errorDetail(body)}
	case status == http.StatusBadRequest:
		return parseValidationError(body)
	default:
		return &StatusError{StatusCode: status, Endpoint: path, Body: string(body)}
	}
}

// errorDetail pulls the "detail" field out of a DRF-style error body.
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Detail
}

// parseValidationError decodes a 400 body of the form
// {"field": ["msg", ...], ...} or {"detail": "msg"}.
func parseValidationError(body []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return &ValidationError{Detail: string(body)}
	}

	ve := &ValidationError{Fields: map[string][]string{}}
	for field, msg := range raw {
		if field == "detail" {
			json.Unmarshal(msg, &ve.Detail)
			continue
		}
		var msgs []string
		if err := json.Unmarshal(msg, &msgs); err == nil {
			ve.Fields[field] = msgs
			continue
		}
		var single string
		if err := json.Unmarshal(msg, &single); err == nil {
			ve.Fields[field] = []string{single}
		}
	}
	if len(ve.Fields) == 0 {
		ve.Fields = nil
	}
	return ve
}
