package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	// Root resolver
	s.RegisterRouteFunc("GET "+RouteRoot, ChainMiddleware(s.RootHandler(), s.BaseMiddleware()...))

	// Auth surfaces (guest only; an existing session is moved along)
	s.RegisterRouteFunc("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.BaseMiddleware(s.GuestOnly())...))
	s.RegisterRouteFunc("POST "+RouteRegister, ChainMiddleware(s.RegisterHandler(), s.BaseMiddleware(s.GuestOnly())...))
	s.RegisterRouteFunc("POST "+RouteVerifyOTP, ChainMiddleware(s.VerifyOTPHandler(), s.BaseMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteResendOTP, ChainMiddleware(s.ResendOTPHandler(), s.BaseMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.BaseMiddleware()...))

	// Onboarding (session required, onboarding not yet complete)
	s.RegisterRouteFunc("GET "+RouteOnboarding, ChainMiddleware(s.EstatesHandler(), s.BaseMiddleware(s.RequireSession())...))
	s.RegisterRouteFunc("POST "+RouteOnboarding, ChainMiddleware(s.OnboardingHandler(), s.BaseMiddleware(s.RequireSession())...))
	s.RegisterRouteFunc("GET "+RouteOnboardingSuccess, ChainMiddleware(s.OnboardingSuccessHandler(), s.BaseMiddleware(s.RequireSession())...))

	// Account
	s.RegisterRouteFunc("GET "+RouteProfile, ChainMiddleware(s.ProfileHandler(), s.BaseMiddleware(s.RequireOnboarded())...))
	s.RegisterRouteFunc("GET "+RouteMeters, ChainMiddleware(s.MetersHandler(), s.BaseMiddleware(s.RequireOnboarded())...))
	s.RegisterRouteFunc("POST "+RouteMeterSelect, ChainMiddleware(s.SelectMeterHandler(), s.BaseMiddleware(s.RequireOnboarded())...))
	s.RegisterRouteFunc("POST "+RouteInstallDismiss, ChainMiddleware(s.InstallDismissHandler(), s.BaseMiddleware()...))

	// Meter-scoped pages: onboarded session plus a resolved active meter
	meterPage := func() []func(http.HandlerFunc) http.HandlerFunc {
		return s.BaseMiddleware(s.RequireOnboarded(), s.ResolveMeter())
	}
	s.RegisterRouteFunc("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), meterPage()...))
	s.RegisterRouteFunc("GET "+RouteMeterDetails, ChainMiddleware(s.MeterDetailsHandler(), meterPage()...))
	s.RegisterRouteFunc("GET "+RouteUsage, ChainMiddleware(s.UsageHandler(), meterPage()...))
	s.RegisterRouteFunc("GET "+RouteWallet, ChainMiddleware(s.WalletHandler(), meterPage()...))
	s.RegisterRouteFunc("GET "+RoutePrice, ChainMiddleware(s.PriceHandler(), meterPage()...))
	s.RegisterRouteFunc("GET "+RouteActivities, ChainMiddleware(s.ActivitiesHandler(), meterPage()...))
	s.RegisterRouteFunc("GET "+RouteTransactions, ChainMiddleware(s.TransactionsHandler(), meterPage()...))
	s.RegisterRouteFunc("GET "+RouteTransactionStats, ChainMiddleware(s.TransactionStatsHandler(), meterPage()...))
	s.RegisterRouteFunc("GET "+RouteNotifications, ChainMiddleware(s.NotificationsHandler(), meterPage()...))
	s.RegisterRouteFunc("POST "+RouteNotificationRead, ChainMiddleware(s.MarkNotificationReadHandler(), meterPage()...))
	s.RegisterRouteFunc("POST "+RouteNotificationsReadA, ChainMiddleware(s.MarkAllNotificationsReadHandler(), meterPage()...))
	s.RegisterRouteFunc("POST "+RoutePurchase, ChainMiddleware(s.PurchaseHandler(), meterPage()...))
	s.RegisterRouteFunc("GET "+RoutePurchaseStatus, ChainMiddleware(s.PurchaseStatusHandler(), meterPage()...))
	s.RegisterRouteFunc("POST "+RoutePurchaseWait, ChainMiddleware(s.PurchaseWaitHandler(), meterPage()...))
	s.RegisterRouteFunc("POST "+RouteGift, ChainMiddleware(s.GiftHandler(), meterPage()...))

	// System
	s.RegisterRouteFunc("GET "+RouteHealthz, ChainMiddleware(s.HealthzHandler(), s.BaseMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())
}
