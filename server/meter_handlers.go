package server

import (
	"net/http"

	"github.com/Abitto-org/user-app/api"
	apperrors "github.com/Abitto-org/user-app/internal/errors"
	"github.com/Abitto-org/user-app/localstore"
	"github.com/Abitto-org/user-app/meter"
	"github.com/Abitto-org/user-app/session"
)

// RootHandler resolves "/" to wherever the session belongs: login when
// anonymous, onboarding when incomplete, otherwise the dashboard of the
// resolved active meter. A user with no meters lands on the meter list.
func (s *Server) RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch s.sessions.Current().State() {
		case session.Unauthenticated:
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		case session.AuthenticatedIncomplete:
			http.Redirect(w, r, RouteOnboarding, http.StatusSeeOther)
			return
		}

		owned, err := s.api.Meters(r.Context())
		if err != nil {
			if apperrors.Is(err, apperrors.ErrUnauthorized) {
				http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
				return
			}
			s.respondError(w, err)
			return
		}

		storedID, _ := s.kv.Get(localstore.KeyLastSelectedMeter)
		res := meter.Resolve("", storedID, owned)
		if res.None() {
			http.Redirect(w, r, RouteMeters, http.StatusSeeOther)
			return
		}
		if res.Has(meter.EffectPersistSelection) {
			if err := s.kv.Set(localstore.KeyLastSelectedMeter, res.ActiveMeterID); err != nil {
				s.logger.Warn().Err(err).Msg("persisting meter selection")
			}
		}
		http.Redirect(w, r, "/"+res.ActiveMeterID+"/dashboard", http.StatusSeeOther)
	}
}

// MetersHandler lists the owned meters. An empty list is rendered as the
// empty state, not an error.
func (s *Server) MetersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owned, err := s.api.Meters(r.Context())
		if err != nil {
			s.respondError(w, err)
			return
		}

		storedID, _ := s.kv.Get(localstore.KeyLastSelectedMeter)
		s.respondData(w, http.StatusOK, map[string]any{
			"meters":        owned,
			"activeMeterId": meter.Resolve("", storedID, owned).ActiveMeterID,
		})
	}
}

// SelectMeterHandler persists an explicit meter choice. Only owned meters
// can be selected.
func (s *Server) SelectMeterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form struct {
			MeterID string `json:"meterId"`
		}
		if err := decodeBody(r, &form); err != nil {
			s.respondError(w, err)
			return
		}
		if form.MeterID == "" {
			s.respondFieldErrors(w, FieldErrors{"meterId": "meter id is required"})
			return
		}

		owned, err := s.api.Meters(r.Context())
		if err != nil {
			s.respondError(w, err)
			return
		}

		res := meter.Resolve(form.MeterID, "", owned)
		if res.ActiveMeterID != form.MeterID {
			s.respondError(w, apperrors.Wrapf(apperrors.ErrMeterNotOwned, "[SelectMeterHandler] meter %s", form.MeterID))
			return
		}
		if err := s.kv.Set(localstore.KeyLastSelectedMeter, form.MeterID); err != nil {
			s.respondError(w, err)
			return
		}

		s.respondData(w, http.StatusOK, map[string]any{
			"activeMeterId": form.MeterID,
			"next":          "/" + form.MeterID + "/dashboard",
		})
	}
}

// MeterDetailsHandler returns the active meter enriched with its upstream
// detail record.
func (s *Server) MeterDetailsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, _ := ActiveMeter(r.Context())
		details, err := s.api.MeterDetails(r.Context(), active.ID)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusOK, map[string]any{
			"meter":  details,
			"meters": OwnedMeters(r.Context()),
		})
	}
}

// UsageHandler serves the usage page: remaining gas plus the weekly series.
func (s *Server) UsageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, _ := ActiveMeter(r.Context())
		stats, err := s.api.MeterStats(r.Context(), active.ID)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusOK, map[string]any{"stats": stats})
	}
}

// GiftHandler transfers gas from the active meter to another meter number.
// The upstream requires a gifting OTP minted via /resend-otp with the
// gifting type.
func (s *Server) GiftHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.GiftRequest
		if err := decodeBody(r, &req); err != nil {
			s.respondError(w, err)
			return
		}
		if fe := validateGift(req); fe != nil {
			s.respondFieldErrors(w, fe)
			return
		}

		active, _ := ActiveMeter(r.Context())
		req.SourceMeterID = active.ID

		message, err := s.api.GiftGas(r.Context(), req)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondMessage(w, http.StatusOK, message)
	}
}
