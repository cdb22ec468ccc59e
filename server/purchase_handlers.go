package server

import (
	"net/http"
)

// PurchaseHandler initialises a gas purchase for the active meter and hands
// back the hosted-checkout URL plus the reference to poll.
func (s *Server) PurchaseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form struct {
			Amount string `json:"amount"`
		}
		if err := decodeBody(r, &form); err != nil {
			s.respondError(w, err)
			return
		}
		if fe := validatePurchase(form.Amount); fe != nil {
			s.respondFieldErrors(w, fe)
			return
		}

		active, _ := ActiveMeter(r.Context())
		init, err := s.api.InitializePurchase(r.Context(), form.Amount, active.ID)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusOK, init)
	}
}

// PurchaseStatusHandler returns the current status of one purchase, a
// single probe without waiting.
func (s *Server) PurchaseStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reference := r.PathValue("reference")
		status, err := s.api.GetPurchaseStatus(r.Context(), reference)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusOK, status)
	}
}

// PurchaseWaitHandler blocks until the purchase's payment reaches a
// terminal status, polling on the configured interval. Closing the page
// cancels the request context, which kills the poll with it.
func (s *Server) PurchaseWaitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reference := r.PathValue("reference")
		status, err := s.poller.Wait(r.Context(), reference)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusOK, status)
	}
}

// WalletHandler serves the wallet balance page.
func (s *Server) WalletHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		balance, err := s.api.WalletBalance(r.Context())
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusOK, balance)
	}
}

// PriceHandler serves the current gas price per kilogram.
func (s *Server) PriceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		price, err := s.api.PricePerKg(r.Context())
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusOK, price)
	}
}

// ActivitiesHandler lists recent usage and transaction events for the
// active meter.
func (s *Server) ActivitiesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, _ := ActiveMeter(r.Context())
		activities, err := s.api.RecentActivities(r.Context(), active.ID)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusOK, map[string]any{"activities": activities})
	}
}
