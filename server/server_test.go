package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Abitto-org/user-app/api"
	"github.com/Abitto-org/user-app/internal/config"
	"github.com/Abitto-org/user-app/localstore"
	"github.com/Abitto-org/user-app/meter"
	"github.com/Abitto-org/user-app/server"
	"github.com/Abitto-org/user-app/session"
)

// fakeBackend stands in for the remote Abitto REST API. It answers the
// envelope shape the real service uses and records what it was asked.
type fakeBackend struct {
	mu      sync.Mutex
	meters  []meter.Meter
	txCalls int32

	lastMeterHeader string
	lastAuthHeader  string
}

func (fb *fakeBackend) setMeters(meters []meter.Meter) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.meters = meters
}

func (fb *fakeBackend) ownedMeters() []meter.Meter {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.meters
}

func writeEnvelope(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": data})
}

func (fb *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	record := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			fb.mu.Lock()
			fb.lastMeterHeader = r.Header.Get("x-meter-id")
			fb.lastAuthHeader = r.Header.Get("Authorization")
			fb.mu.Unlock()
			next(w, r)
		}
	}

	mux.HandleFunc("GET /meter", record(func(w http.ResponseWriter, r *http.Request) {
		owned := fb.ownedMeters()
		writeEnvelope(w, map[string]any{"meters": owned, "count": len(owned)})
	}))
	mux.HandleFunc("GET /meter/stats/{id}", record(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, api.MeterStats{RemainingKg: "12.5", UsedToday: "0.8"})
	}))
	mux.HandleFunc("GET /wallet/balance", record(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"error","message":"wallet down"}`, http.StatusInternalServerError)
	}))
	mux.HandleFunc("GET /settings/price-per-kg", record(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, api.PricePerKg{GasPricePerKg: "120000", Currency: "NGN"})
	}))
	mux.HandleFunc("GET /user/profile/activities", record(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, []api.Activity{})
	}))
	mux.HandleFunc("GET /notifications/unread-count", record(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, map[string]int{"count": 2})
	}))
	mux.HandleFunc("GET /transactions/mine", record(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fb.txCalls, 1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		txs := []api.Transaction{
			{ID: "t1", Reference: "REF-100", Description: "Gas purchase", Type: "GAS_PURCHASE", Amount: "150000", Status: "SUCCESS", CreatedAt: "2025-06-01"},
			{ID: "t2", Reference: "REF-200", Description: "Wallet top up", Type: "WALLET_TOP_UP", Amount: "50000", Status: "SUCCESS", CreatedAt: "2025-06-02"},
		}
		if page >= 2 {
			txs = []api.Transaction{
				{ID: "t3", Reference: "REF-300", Description: "Gas gift", Type: "GAS_GIFT", Amount: "25000", Status: "SUCCESS", CreatedAt: "2025-06-03"},
			}
		}
		writeEnvelope(w, map[string]any{
			"transactions": txs,
			"pagination":   map[string]any{"total": 3, "page": page, "limit": 2, "totalPages": 2},
		})
	}))
	mux.HandleFunc("POST /auth/signin", record(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "message": "OTP sent to your email"})
	}))
	mux.HandleFunc("POST /otp/verify", record(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, api.VerifyOTPResult{
			Type: api.OTPLoginDeviceVerification, Validated: true,
			Token: "backend-token", OnboardingCompleted: true,
		})
	}))
	mux.HandleFunc("GET /estate", record(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, []api.Estate{{ID: "e1", Name: "Palm Grove"}})
	}))
	mux.HandleFunc("PUT /user/profile/onboarding", record(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "message": "profile completed"})
	}))
	mux.HandleFunc("/", record(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"error","message":"no such endpoint"}`, http.StatusNotFound)
	}))

	return mux
}

type harness struct {
	srv      *server.Server
	backend  *fakeBackend
	sessions *session.Store
	kv       localstore.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	backend := &fakeBackend{}
	upstream := httptest.NewServer(backend.handler())
	t.Cleanup(upstream.Close)

	kv := localstore.NewMemStore()
	sessions := session.NewStore(kv)
	transport := &api.Transport{Sessions: sessions, Reserved: server.ReservedSegments, Logger: zerolog.Nop()}

	client, err := api.NewClient(upstream.URL, 5*time.Second, transport)
	require.NoError(t, err)

	t.Setenv("ENV", "TEST")
	srv, err := server.New(config.New(), zerolog.Nop(), sessions, kv, client)
	require.NoError(t, err)

	return &harness{srv: srv, backend: backend, sessions: sessions, kv: kv}
}

func (h *harness) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Data
}
