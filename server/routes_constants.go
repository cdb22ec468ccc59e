package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Root resolver
	RouteRoot = "/{$}"

	// Auth Routes
	RouteLogin     = "/login"
	RouteRegister  = "/register"
	RouteVerifyOTP = "/verify-otp"
	RouteResendOTP = "/resend-otp"
	RouteLogout    = "/logout"

	// Onboarding Routes
	RouteOnboarding        = "/onboarding"
	RouteOnboardingSuccess = "/onboarding-success"

	// Account Routes
	RouteProfile        = "/profile"
	RouteMeters         = "/meters"
	RouteMeterSelect    = "/meters/select"
	RouteInstallDismiss = "/install/dismiss"

	// Meter-scoped page routes (first segment is the active meter id)
	RouteDashboard          = "/{meterID}/dashboard"
	RouteMeterDetails       = "/{meterID}/meter"
	RouteUsage              = "/{meterID}/usage"
	RouteWallet             = "/{meterID}/wallet"
	RoutePrice              = "/{meterID}/price"
	RouteActivities         = "/{meterID}/activities"
	RouteTransactions       = "/{meterID}/transactions"
	RouteTransactionStats   = "/{meterID}/transactions/stats"
	RouteNotifications      = "/{meterID}/notifications"
	RouteNotificationRead   = "/{meterID}/notifications/{id}/read"
	RouteNotificationsReadA = "/{meterID}/notifications/read-all"
	RoutePurchase           = "/{meterID}/purchase"
	RoutePurchaseStatus     = "/{meterID}/purchase/{reference}"
	RoutePurchaseWait       = "/{meterID}/purchase/{reference}/wait"
	RouteGift               = "/{meterID}/gift"

	// System Routes
	RouteHealthz = "/healthz"
	RouteMetrics = "/metrics"
)

// ReservedSegments are first path segments that can never be a meter id.
// The request dispatcher consults this set before attaching the x-meter-id
// header; a page whose first segment appears here makes meterless requests.
var ReservedSegments = map[string]bool{
	"login":              true,
	"register":           true,
	"verify-otp":         true,
	"resend-otp":         true,
	"logout":             true,
	"onboarding":         true,
	"onboarding-success": true,
	"profile":            true,
	"meters":             true,
	"install":            true,
	"healthz":            true,
	"metrics":            true,
}
