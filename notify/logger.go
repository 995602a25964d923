package notify

import "github.com/rs/zerolog/log"

// LogNotifier writes notices to the structured log. Used by headless
// consumers (the demo CLI) where no modal dialog exists.
type LogNotifier struct{}

var _ Notifier = LogNotifier{}

func (LogNotifier) Show(n Notice) {
	switch n.Severity {
	case SeverityWarning:
		log.Warn().Str("severity", string(n.Severity)).Msg(n.Message)
	default:
		log.Info().Str("severity", string(n.Severity)).Msg(n.Message)
	}
}
