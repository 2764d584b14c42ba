package http

import (
	"errors"
	"net/http"

	"kharcha/internal/api"
	"kharcha/internal/log"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	p := ParsePeriod(r.URL.Query(), s.clock.Now())

	if err := s.dashboard.SelectPeriod(r.Context(), p); err != nil {
		var ae *api.AuthError
		if errors.As(err, &ae) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		// Failed state still renders: the page shows the error banner and
		// whatever snapshot survived.
	}

	s.render(w, r, "layout.html", buildDashboardView(s.dashboard.State()))
}

// handleDashboardPartial re-renders the dashboard fragment for the requested
// period. Driven by the month switcher and by dashboard:refresh triggers.
func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request) {
	p := ParsePeriod(r.URL.Query(), s.clock.Now())

	if err := s.dashboard.SelectPeriod(r.Context(), p); err != nil {
		var ae *api.AuthError
		if errors.As(err, &ae) {
			// HTMX cannot follow a redirect from a partial; ask it to.
			NewHTMXResponse().
				Status(http.StatusUnauthorized).
				Header("HX-Redirect", "/login").
				Write(w)
			return
		}
	}

	s.render(w, r, "dashboard.html", buildDashboardView(s.dashboard.State()))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "template execution failed",
			log.FieldOperation, log.OpRender,
			"template", name,
			log.FieldError, err)
	}
}
