package config

type Config interface {
	EnvConfig
	APIConfig
	PollConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetEnv() string
}

type APIConfig interface {
	GetAPIBaseURL() string
	GetAPITimeoutSeconds() int
}

type PollConfig interface {
	GetPurchasePollIntervalSeconds() int
	GetPurchasePollMaxAttempts() int
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}
