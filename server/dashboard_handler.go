package server

import (
	"net/http"
	"sync"

	"github.com/Abitto-org/user-app/api"
)

// dashboardView is the composed dashboard page. Each region loads
// independently; a region that failed carries its error string and the rest
// of the page still renders.
type dashboardView struct {
	Meter         any                `json:"meter"`
	Meters        any                `json:"meters"`
	Stats         *api.MeterStats    `json:"stats,omitempty"`
	StatsError    string             `json:"statsError,omitempty"`
	Wallet        *api.WalletBalance `json:"wallet,omitempty"`
	WalletError   string             `json:"walletError,omitempty"`
	Price         *api.PricePerKg    `json:"price,omitempty"`
	PriceError    string             `json:"priceError,omitempty"`
	Activities    []api.Activity     `json:"activities,omitempty"`
	ActivityError string             `json:"activityError,omitempty"`
	UnreadCount   int                `json:"unreadCount"`
}

// DashboardHandler fans out to the four upstream reads the dashboard is
// composed from and degrades per region rather than failing the page.
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, _ := ActiveMeter(r.Context())
		view := dashboardView{Meter: active, Meters: OwnedMeters(r.Context())}

		var wg sync.WaitGroup
		wg.Add(5)

		go func() {
			defer wg.Done()
			stats, err := s.api.MeterStats(r.Context(), active.ID)
			if err != nil {
				view.StatsError = "usage stats unavailable"
				return
			}
			view.Stats = &stats
		}()

		go func() {
			defer wg.Done()
			wallet, err := s.api.WalletBalance(r.Context())
			if err != nil {
				view.WalletError = "wallet unavailable"
				return
			}
			view.Wallet = &wallet
		}()

		go func() {
			defer wg.Done()
			price, err := s.api.PricePerKg(r.Context())
			if err != nil {
				view.PriceError = "price unavailable"
				return
			}
			view.Price = &price
		}()

		go func() {
			defer wg.Done()
			activities, err := s.api.RecentActivities(r.Context(), active.ID)
			if err != nil {
				view.ActivityError = "recent activity unavailable"
				return
			}
			view.Activities = activities
		}()

		go func() {
			defer wg.Done()
			count, err := s.api.NotificationsUnreadCount(r.Context())
			if err != nil {
				return
			}
			view.UnreadCount = count
		}()

		wg.Wait()
		s.respondData(w, http.StatusOK, view)
	}
}
