package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pigmykit/go-agent-client/internal/config"
)

func TestDefaults(t *testing.T) {
	c := config.New()

	require.Equal(t, "http://localhost:8080", c.GetBaseURL())
	require.Equal(t, "Pigmy Agent", c.GetAppName())
	require.Equal(t, 12*time.Hour, c.GetSessionTimeout())
	require.Equal(t, "./data/session.bin", c.GetCredentialsFile())
	require.Equal(t, "", c.GetCredentialsKey())
	require.Equal(t, "DEV", c.GetEnv())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BASE_URL", "https://collections.example.com")
	t.Setenv("SESSION_TIMEOUT_HOURS", "8")
	t.Setenv("CREDENTIALS_KEY", "s3cret")

	c := config.New()
	require.Equal(t, "https://collections.example.com", c.GetBaseURL())
	require.Equal(t, 8*time.Hour, c.GetSessionTimeout())
	require.Equal(t, "s3cret", c.GetCredentialsKey())
}

func TestBadTimeoutFallsBack(t *testing.T) {
	t.Setenv("SESSION_TIMEOUT_HOURS", "soon")
	require.Equal(t, 12*time.Hour, config.New().GetSessionTimeout())

	t.Setenv("SESSION_TIMEOUT_HOURS", "-2")
	require.Equal(t, 12*time.Hour, config.New().GetSessionTimeout())
}
