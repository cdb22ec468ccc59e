package server

import (
	"net/http"

	"github.com/Abitto-org/user-app/localstore"
)

func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondData(w, http.StatusOK, map[string]any{"status": "ok"})
	}
}

// InstallDismissHandler records that the user waved away the install
// prompt. The flag is permanent; the prompt never comes back.
func (s *Server) InstallDismissHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.kv.Set(localstore.KeyInstallPromptDismissed, "true"); err != nil {
			s.respondError(w, err)
			return
		}
		s.respondMessage(w, http.StatusOK, "install prompt dismissed")
	}
}
