package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Abitto-org/user-app/api"
	"github.com/Abitto-org/user-app/collection"
	"github.com/Abitto-org/user-app/internal/config"
	"github.com/Abitto-org/user-app/localstore"
	"github.com/Abitto-org/user-app/purchase"
	"github.com/Abitto-org/user-app/session"
)

const (
	transactionsPageLimit  = 10
	notificationsPageLimit = 10
)

// Server is the local gateway the browser talks to. It owns the session
// store, the key-value local store, the typed API client and the per-resource
// pagers, and maps each page route onto the upstream Abitto REST API.
type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	logger zerolog.Logger

	sessions *session.Store
	kv       localstore.Store
	api      *api.Client
	poller   *purchase.Poller

	transactions  *collection.PagerSet[api.Transaction]
	notifications *collection.PagerSet[api.Notification]
}

func New(cfg config.Config, logger zerolog.Logger, sessions *session.Store, kv localstore.Store, apiClient *api.Client) (*Server, error) {
	if sessions == nil || kv == nil || apiClient == nil {
		return nil, fmt.Errorf("[Server New] sessions, kv and api client are all required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		logger:   logger,
		sessions: sessions,
		kv:       kv,
		api:      apiClient,
	}
	s.env = cfg.GetEnv()

	s.poller = purchase.NewPoller(
		apiClient.GetPurchaseStatus,
		time.Duration(cfg.GetPurchasePollIntervalSeconds())*time.Second,
		cfg.GetPurchasePollMaxAttempts(),
		logger,
	)
	s.transactions = collection.NewPagerSet(transactionsPageLimit, s.fetchTransactionsPage)
	s.notifications = collection.NewPagerSet(notificationsPageLimit, s.fetchNotificationsPage)

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}

// firstPathSegment extracts the leading path segment of a request URL:
// "/m1/dashboard" yields "m1", "/" yields "".
func firstPathSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return ""
	}
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}
