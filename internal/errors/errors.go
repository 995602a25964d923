package errors

import (
	"errors"
	"fmt"
)

// Common error types for the agent session core
var (
	// Request wrapper errors
	ErrNoSession    = errors.New("no active session")
	ErrUnavailable  = errors.New("request could not be completed")
	ErrSessionEnded = errors.New("session ended")

	// Credential store errors
	ErrStorageCorrupt = errors.New("stored credentials are corrupt")

	// Lifecycle errors
	ErrAlreadyLoggedIn = errors.New("a session is already active")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
