package session

// User-facing messages for forced logouts and login failures. The backend's
// own rejection messages are surfaced verbatim; these cover the cases the
// client decides on its own.
const (
	MsgInactivityLogout  = "You have been logged out due to inactivity. Please log in again."
	MsgExpiredInactivity = "Session expired due to inactivity. Please log in again."
	MsgSessionExpired    = "Session expired. Please log in again."
	MsgOtherDevice       = "Your account has been logged in on another device. Please log in again."
	MsgDeactivated       = "Your account has been deactivated. Please contact your organization."
	MsgNetworkFailure    = "Unable to connect. Please check your internet connection and try again."
	MsgStorageFailure    = "Could not save your session on this device. Please try again."
	MsgAlreadyLoggedIn   = "A session is already active on this device."
)
