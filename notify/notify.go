package notify

import "strings"

// Severity classifies a notice for the UI's modal dialog styling.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Notice is a blocking, user-acknowledged notification. Every forced logout
// not initiated by the user produces exactly one of these.
type Notice struct {
	Severity Severity
	Message  string
}

// Notifier is implemented by the UI layer to surface a modal dialog with a
// single dismiss action. Implementations must not call back into the session
// core from Show.
type Notifier interface {
	Show(n Notice)
}

// Classify maps a forced-logout message to a severity: expiry-related
// messages render as warnings, everything else as informational.
func Classify(message string) Severity {
	if strings.Contains(strings.ToLower(message), "expir") {
		return SeverityWarning
	}
	return SeverityInfo
}
