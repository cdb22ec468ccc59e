package server

import (
	"net/http"

	"github.com/Abitto-org/user-app/session"
)

// Route guards. Each guard classifies the current session and either lets
// the request through or answers 303 See Other towards the state's home
// route. Guards only read session state; they never write it, so a denied
// request leaves the session exactly as it found it.

// RequireSession admits authenticated sessions regardless of onboarding
// progress. Anonymous requests are sent to the login page.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.sessions.Current().State() == session.Unauthenticated {
				http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
				return
			}
			next(w, r)
		}
	}
}

// RequireOnboarded admits only fully onboarded sessions. Authenticated users
// who have not finished onboarding are sent back to the onboarding form;
// anonymous users go to login.
func (s *Server) RequireOnboarded() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			switch s.sessions.Current().State() {
			case session.Unauthenticated:
				http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			case session.AuthenticatedIncomplete:
				http.Redirect(w, r, RouteOnboarding, http.StatusSeeOther)
			default:
				next(w, r)
			}
		}
	}
}

// GuestOnly admits anonymous requests to the auth surfaces. A session that
// already exists is moved along: incomplete onboarding resumes the form,
// a complete session lands on the root resolver, which picks its meter page.
func (s *Server) GuestOnly() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			switch s.sessions.Current().State() {
			case session.AuthenticatedIncomplete:
				http.Redirect(w, r, RouteOnboarding, http.StatusSeeOther)
			case session.AuthenticatedComplete:
				http.Redirect(w, r, "/", http.StatusSeeOther)
			default:
				next(w, r)
			}
		}
	}
}
