package apiclient

// Backend routes consumed by the agent app. The dashboard route doubles as
// the token-verification probe on cold start.
const (
	LoginRoute     = "/agent/login"
	LogoutRoute    = "/agent/logout"
	DashboardRoute = "/agent/dashboard"
)
