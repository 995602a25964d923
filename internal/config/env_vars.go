package config

import (
	"os"
	"strconv"
	"time"
)

const (
	baseURLVar        = "BASE_URL"
	appNameVar        = "APP_NAME"
	sessionTimeoutVar = "SESSION_TIMEOUT_HOURS"
	credsFileVar      = "CREDENTIALS_FILE"
	credsKeyVar       = "CREDENTIALS_KEY"
)

// defaultSessionTimeoutHours is the inactivity window after which a session
// is forcibly ended.
const defaultSessionTimeoutHours = 12

type EnvVars struct{}

var _ Config = EnvVars{}

// GetBaseURL returns the base URL of the collection backend
// (e.g., "https://api.example.com")
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Pigmy Agent")
}

// GetSessionTimeout returns the inactivity timeout. Values that fail to parse
// fall back to the default rather than erroring; a bad env var must not brick
// the app at startup.
func (EnvVars) GetSessionTimeout() time.Duration {
	hours, err := strconv.Atoi(GetEnv(sessionTimeoutVar, ""))
	if err != nil || hours <= 0 {
		hours = defaultSessionTimeoutHours
	}
	return time.Duration(hours) * time.Hour
}

func (EnvVars) GetCredentialsFile() string {
	return GetEnv(credsFileVar, "./data/session.bin")
}

// GetCredentialsKey returns the passphrase protecting the on-device
// credential file.
func (EnvVars) GetCredentialsKey() string {
	return GetEnv(credsKeyVar, "")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
