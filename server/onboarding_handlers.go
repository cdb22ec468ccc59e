package server

import (
	"net/http"

	"github.com/Abitto-org/user-app/api"
)

// EstatesHandler serves the estate choices for the onboarding form.
func (s *Server) EstatesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		estates, err := s.api.Estates(r.Context())
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusOK, map[string]any{"estates": estates})
	}
}

// OnboardingHandler submits the profile completion form. On upstream
// success the local onboarding flag flips, which is what moves the session
// from AuthenticatedIncomplete to AuthenticatedComplete.
func (s *Server) OnboardingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.OnboardingRequest
		if err := decodeBody(r, &req); err != nil {
			s.respondError(w, err)
			return
		}
		if fe := validateOnboarding(req); fe != nil {
			s.respondFieldErrors(w, fe)
			return
		}

		message, err := s.api.SubmitOnboarding(r.Context(), req)
		if err != nil {
			s.respondError(w, err)
			return
		}
		if err := s.sessions.CompleteOnboarding(); err != nil {
			s.respondError(w, err)
			return
		}

		s.respondData(w, http.StatusOK, map[string]any{
			"message": message,
			"next":    RouteOnboardingSuccess,
		})
	}
}

// OnboardingSuccessHandler is the post-onboarding landing state.
func (s *Server) OnboardingSuccessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondData(w, http.StatusOK, map[string]any{"next": "/"})
	}
}

// ProfileHandler returns the authenticated user's profile.
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.api.Profile(r.Context())
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusOK, map[string]any{"user": profile})
	}
}
