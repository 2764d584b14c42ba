package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kharcha/internal/core"
	"kharcha/internal/log"
	"kharcha/internal/viewmodel"
	appweb "kharcha/web"
)

// Dashboard is the slice of the view model the handlers drive.
type Dashboard interface {
	State() viewmodel.State
	SelectPeriod(ctx context.Context, p core.Period) error
	Refresh(ctx context.Context) error
	AddExpense(ctx context.Context, e core.Expense) ([]viewmodel.Advisory, error)
	EditExpense(ctx context.Context, id int64, amount core.Money, note string) error
	RemoveExpense(ctx context.Context, id int64) error
	AddBudget(ctx context.Context, b core.Budget) error
	EditBudget(ctx context.Context, id int64, amount core.Money) error
	RemoveBudget(ctx context.Context, id int64) error
	UpdateIncome(ctx context.Context, amount core.Money) error
}

// Auth handles account and token operations against the backend.
type Auth interface {
	Register(ctx context.Context, username, password string) error
	ObtainToken(ctx context.Context, username, password string) error
}

// SessionClearer drops the persisted token pair on logout.
type SessionClearer interface {
	Clear(ctx context.Context) error
}

// Server renders the dashboard shell and forwards mutations to the view
// model.
type Server struct {
	http.Server

	dashboard Dashboard
	auth      Auth
	session   SessionClearer
	clock     viewmodel.Clock
	templates *template.Template
	logger    *log.Logger
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, dashboard Dashboard, auth Auth, session SessionClearer, clock viewmodel.Clock, logger *log.Logger) (*Server, error) {
	s := &Server{
		dashboard: dashboard,
		auth:      auth,
		session:   session,
		clock:     clock,
		logger:    logger.WithComponent(log.ComponentHTTP),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	s.templates = t

	r := chi.NewRouter()
	r.Use(s.requestLogging)
	r.Use(securityHeaders)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.Handle("/static/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, req)
		}))
	}

	r.Get("/", s.handleIndex)
	r.Get("/ui/dashboard", s.handleDashboardPartial)

	r.Post("/expenses", s.handleCreateExpense)
	r.Put("/expenses/{id}", s.handleUpdateExpense)
	r.Delete("/expenses/{id}", s.handleDeleteExpense)

	r.Post("/budgets", s.handleCreateBudget)
	r.Put("/budgets/{id}", s.handleUpdateBudget)
	r.Delete("/budgets/{id}", s.handleDeleteBudget)

	r.Post("/income", s.handleSetIncome)

	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Get("/register", s.handleRegisterPage)
	r.Post("/register", s.handleRegister)
	r.Post("/logout", s.handleLogout)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
