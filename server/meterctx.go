package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/Abitto-org/user-app/api"
	apperrors "github.com/Abitto-org/user-app/internal/errors"
	"github.com/Abitto-org/user-app/localstore"
	"github.com/Abitto-org/user-app/meter"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyActiveMeter stores the resolved active meter.Meter
	ContextKeyActiveMeter ContextKey = "active_meter"
	// ContextKeyMeters stores the full owned []meter.Meter list
	ContextKeyMeters ContextKey = "meters"
)

// ActiveMeter returns the meter the resolver settled on for this request.
func ActiveMeter(ctx context.Context) (meter.Meter, bool) {
	m, ok := ctx.Value(ContextKeyActiveMeter).(meter.Meter)
	return m, ok
}

// OwnedMeters returns the owned meter list fetched while resolving.
func OwnedMeters(ctx context.Context) []meter.Meter {
	meters, _ := ctx.Value(ContextKeyMeters).([]meter.Meter)
	return meters
}

// ResolveMeter is the middleware behind every meter-scoped page route. It
// fetches the owned meter list, reconciles the URL's {meterID} segment with
// the persisted last selection, and executes the resolver's effects:
// persisting a changed selection, and answering 303 to the rewritten URL
// when the segment lost. Resolution never runs against a stale or missing
// owned list; the fetch happens on every request.
//
// A user who owns no meters is parked on the meter list page, which renders
// the empty state.
func (s *Server) ResolveMeter() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			owned, err := s.api.Meters(r.Context())
			if err != nil {
				if apperrors.Is(err, apperrors.ErrUnauthorized) {
					http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
					return
				}
				s.respondError(w, err)
				return
			}

			storedID, err := s.kv.Get(localstore.KeyLastSelectedMeter)
			if err != nil && !apperrors.Is(err, apperrors.ErrKeyNotFound) {
				s.logger.Warn().Err(err).Msg("reading last selected meter")
			}

			urlID := r.PathValue("meterID")
			res := meter.Resolve(urlID, storedID, owned)
			if res.None() {
				http.Redirect(w, r, RouteMeters, http.StatusSeeOther)
				return
			}

			// Persist before any redirect so the next request converges.
			if res.Has(meter.EffectPersistSelection) {
				if err := s.kv.Set(localstore.KeyLastSelectedMeter, res.ActiveMeterID); err != nil {
					s.logger.Warn().Err(err).Msg("persisting meter selection")
				}
			}
			if res.Has(meter.EffectRewriteURL) {
				http.Redirect(w, r, rewriteMeterPath(r.URL.Path, res.ActiveMeterID), http.StatusSeeOther)
				return
			}

			active := owned[0]
			for _, m := range owned {
				if m.ID == res.ActiveMeterID {
					active = m
					break
				}
			}

			ctx := context.WithValue(r.Context(), ContextKeyActiveMeter, active)
			ctx = context.WithValue(ctx, ContextKeyMeters, owned)
			ctx = api.WithPageSegment(ctx, active.ID)
			next(w, r.WithContext(ctx))
		}
	}
}

// rewriteMeterPath swaps the first path segment for the winning meter id,
// keeping the rest of the path intact: "/stale/dashboard" -> "/m1/dashboard".
func rewriteMeterPath(path, meterID string) string {
	rest := ""
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		rest = trimmed[i:]
	}
	return "/" + meterID + rest
}
