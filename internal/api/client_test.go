package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kharcha/internal/core"
	"kharcha/internal/log"
)

type fakeStore struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func (s *fakeStore) Tokens(ctx context.Context) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access, s.refresh, nil
}

func (s *fakeStore) SetAccess(ctx context.Context, access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	return nil
}

func (s *fakeStore) SetTokens(ctx context.Context, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return nil
}

func newTestClient(t *testing.T, handler http.Handler, store *fakeStore) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := New(server.URL+"/api", 5*time.Second, store, log.New(log.DefaultConfig()))
	require.NoError(t, err)
	return c
}

func TestClient_BearerHeader(t *testing.T) {
	store := &fakeStore{access: "tok-abc", refresh: "ref-xyz"}
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}), store)

	_, err := client.Budgets(context.Background(), core.Period{Year: 2025, Month: 7})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestClient_ObtainTokenStoresPair(t *testing.T) {
	store := &fakeStore{}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/token/", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "asha", creds["username"])
		json.NewEncoder(w).Encode(map[string]string{"access": "a1", "refresh": "r1"})
	}), store)

	err := client.ObtainToken(context.Background(), "asha", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a1", store.access)
	assert.Equal(t, "r1", store.refresh)
}

func TestClient_RefreshOn401(t *testing.T) {
	store := &fakeStore{access: "stale", refresh: "ref-1"}
	var dashboardCalls, refreshCalls int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/dashboard/":
			dashboardCalls++
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"income":"1000.00","total_spent":"250.00"}`))
		case "/api/token/refresh/":
			refreshCalls++
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "ref-1", body["refresh"])
			json.NewEncoder(w).Encode(map[string]string{"access": "fresh"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}), store)

	summary, err := client.DashboardSummary(context.Background(), core.Period{Year: 2025, Month: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(100000), summary.Income.Paise)
	assert.Equal(t, 2, dashboardCalls)
	assert.Equal(t, 1, refreshCalls)
	assert.Equal(t, "fresh", store.access)
}

func TestClient_AuthErrorAfterFailedRefresh(t *testing.T) {
	store := &fakeStore{access: "stale", refresh: "expired"}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/token/refresh/" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"token expired"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}), store)

	_, err := client.Budgets(context.Background(), core.Period{Year: 2025, Month: 7})
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "token expired", authErr.Detail)
}

func TestClient_ValidationError(t *testing.T) {
	store := &fakeStore{access: "tok"}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"amount":["must be positive"]}`))
	}), store)

	err := client.CreateExpense(context.Background(), core.Expense{
		Amount:   core.Money{Paise: 100},
		Category: core.CategoryFood,
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"must be positive"}, ve.Fields["amount"])
}

func TestClient_TransportError(t *testing.T) {
	store := &fakeStore{access: "tok"}
	server := httptest.NewServer(http.NotFoundHandler())
	client, err := New(server.URL, time.Second, store, log.New(log.DefaultConfig()))
	require.NoError(t, err)
	server.Close()

	_, err = client.Budgets(context.Background(), core.Period{Year: 2025, Month: 7})
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.NotNil(t, errors.Unwrap(te))
}

func TestClient_ExpensesPeriodQuery(t *testing.T) {
	store := &fakeStore{access: "tok"}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024", r.URL.Query().Get("year"))
		assert.Equal(t, "12", r.URL.Query().Get("month"))
		w.Write([]byte(`[{"id":3,"amount":"45.50","category":"food","note":"lunch","date":"2024-12-05","is_recurring":false}]`))
	}), store)

	expenses, err := client.Expenses(context.Background(), core.Period{Year: 2024, Month: 12})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, int64(4550), expenses[0].Amount.Paise)
	assert.Equal(t, core.CategoryFood, expenses[0].Category)
}

func TestClient_BudgetsPeriodQuery(t *testing.T) {
	store := &fakeStore{access: "tok"}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/budgets/", r.URL.Path)
		assert.Equal(t, "2024", r.URL.Query().Get("year"))
		assert.Equal(t, "11", r.URL.Query().Get("month"))
		w.Write([]byte(`[{"id":7,"category":"rent","amount":"800.00"}]`))
	}), store)

	budgets, err := client.Budgets(context.Background(), core.Period{Year: 2024, Month: 11})
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, core.CategoryRent, budgets[0].Category)
	assert.Equal(t, int64(80000), budgets[0].Amount.Paise)
}

func TestClient_CreateExpenseSendsDate(t *testing.T) {
	store := &fakeStore{access: "tok"}
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}), store)

	err := client.CreateExpense(context.Background(), core.Expense{
		Amount:   core.Money{Paise: 2500},
		Category: core.CategoryFood,
		Note:     "lunch",
		Date:     core.NewDate(2025, 7, 15),
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-07-15", gotBody["date"])
	assert.Equal(t, "25.00", gotBody["amount"])
}

func TestClient_InsightsMemoized(t *testing.T) {
	store := &fakeStore{access: "tok"}
	var calls int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/insights/" {
			calls++
			w.Write([]byte(`[{"severity":"warning","message":"Food spend is rising"}]`))
			return
		}
		w.Write([]byte(`{}`))
	}), store)

	ctx := context.Background()
	p := core.Period{Year: 2025, Month: 7}

	first, err := client.Insights(ctx, p)
	require.NoError(t, err)
	second, err := client.Insights(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second fetch should hit the memo")

	// Any mutation invalidates the memo.
	require.NoError(t, client.SetIncome(ctx, core.Money{Paise: 5000000}))
	_, err = client.Insights(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestClient_UpdateExpensePath(t *testing.T) {
	store := &fakeStore{access: "tok"}
	var gotPath, gotMethod string
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
	}), store)

	err := client.UpdateExpense(context.Background(), 42, core.Money{Paise: 9900}, "groceries")
	require.NoError(t, err)
	assert.Equal(t, "/api/expenses/42/update/", gotPath)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "99.00", gotBody["amount"])
	assert.Equal(t, "groceries", gotBody["note"])
}

func TestClient_MaterializeRecurring(t *testing.T) {
	store := &fakeStore{access: "tok"}
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"created":2}`))
	}), store)

	require.NoError(t, client.MaterializeRecurring(context.Background()))
	assert.Equal(t, "/api/expenses/generate-recurring/", gotPath)
}
