package config

import "time"

type Config interface {
	GetBaseURL() string
	GetAppName() string
	GetSessionTimeout() time.Duration
	GetCredentialsFile() string
	GetCredentialsKey() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}
