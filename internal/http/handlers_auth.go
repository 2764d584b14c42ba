package http

import (
	"errors"
	"net/http"

	"kharcha/internal/api"
	"kharcha/internal/log"
)

type authView struct {
	Error string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login.html", authView{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, "login.html", authView{Error: "Invalid request format"})
		return
	}
	username := SanitizeInput(r.Form.Get("username"))
	password := r.Form.Get("password")
	if username == "" || password == "" {
		s.render(w, r, "login.html", authView{Error: "Username and password are required"})
		return
	}

	if err := s.auth.ObtainToken(r.Context(), username, password); err != nil {
		s.logger.WarnContext(r.Context(), "login failed", log.FieldError, err)
		s.render(w, r, "login.html", authView{Error: loginMessage(err)})
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// loginMessage rewords token failures for the sign-in form, where "session
// expired" would make no sense.
func loginMessage(err error) string {
	var ae *api.AuthError
	if errors.As(err, &ae) {
		return "Invalid username or password"
	}
	return userMessage(err)
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "register.html", authView{})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, "register.html", authView{Error: "Invalid request format"})
		return
	}
	username := SanitizeInput(r.Form.Get("username"))
	password := r.Form.Get("password")
	if username == "" || password == "" {
		s.render(w, r, "register.html", authView{Error: "Username and password are required"})
		return
	}

	if err := s.auth.Register(r.Context(), username, password); err != nil {
		s.logger.WarnContext(r.Context(), "registration failed", log.FieldError, err)
		s.render(w, r, "register.html", authView{Error: userMessage(err)})
		return
	}
	// Sign in right away with the new account.
	if err := s.auth.ObtainToken(r.Context(), username, password); err != nil {
		s.render(w, r, "login.html", authView{Error: userMessage(err)})
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s.session != nil {
		if err := s.session.Clear(r.Context()); err != nil {
			s.logger.WarnContext(r.Context(), "session clear failed", log.FieldError, err)
		}
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
