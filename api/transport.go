package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Abitto-org/user-app/session"
)

type contextKey string

const pageSegmentKey contextKey = "page-segment"

// WithPageSegment records the first path segment of the page a request is
// being made on behalf of. The transport consults it to decide whether an
// active-meter header applies.
func WithPageSegment(ctx context.Context, segment string) context.Context {
	return context.WithValue(ctx, pageSegmentKey, segment)
}

// PageSegmentFromContext returns the recorded page segment, or "".
func PageSegmentFromContext(ctx context.Context) string {
	segment, _ := ctx.Value(pageSegmentKey).(string)
	return segment
}

// SessionSource yields the current session. *session.Store satisfies it;
// tests inject fakes.
type SessionSource interface {
	Current() session.Session
}

// Transport is the single chokepoint every outbound API request passes
// through. It attaches the two cross-cutting headers individual call sites
// must never be trusted to remember:
//
//   - Authorization: Bearer <token>, when a session token exists
//   - x-meter-id: <id>, when the originating page's first path segment is a
//     plausible meter id (i.e. not a reserved route name)
//
// Both attachments are best-effort and silent; their absence never blocks
// the request. The transport does not retry, cache, or interpret response
// bodies.
type Transport struct {
	Base     http.RoundTripper
	Sessions SessionSource
	Reserved map[string]bool
	Logger   zerolog.Logger
}

var _ http.RoundTripper = (*Transport)(nil)

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	// Per net/http contract, RoundTrippers must not mutate the request.
	req = req.Clone(req.Context())

	if t.Sessions != nil {
		if token := t.Sessions.Current().Token; token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if segment := PageSegmentFromContext(req.Context()); segment != "" && !t.Reserved[segment] {
		req.Header.Set("x-meter-id", segment)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := base.RoundTrip(req)
	elapsed := time.Since(start)

	if err != nil {
		observeRequest(req.Method, "error", elapsed)
		t.Logger.Debug().
			Str("request_id", requestID).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Err(err).
			Msg("api request failed")
		return nil, err
	}

	observeRequest(req.Method, strconv.Itoa(resp.StatusCode), elapsed)
	t.Logger.Debug().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("api request")

	return resp, nil
}
