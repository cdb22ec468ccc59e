package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	folderEnvVar  = "FOLDER"
	apiBaseURLVar = "API_BASE_URL"
)

type EnvVars struct{}

var _ Config = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Abitto Gateway")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetAPIBaseURL returns the base URL of the remote Abitto REST API
// (e.g. "https://api.abitto.energy"). Every outbound request is resolved
// against this URL.
func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:3000")
}

func (EnvVars) GetAPITimeoutSeconds() int {
	return GetEnvInt("API_TIMEOUT_SECONDS", 15)
}

func (EnvVars) GetPurchasePollIntervalSeconds() int {
	return GetEnvInt("PURCHASE_POLL_INTERVAL_SECONDS", 5)
}

func (EnvVars) GetPurchasePollMaxAttempts() int {
	return GetEnvInt("PURCHASE_POLL_MAX_ATTEMPTS", 60)
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvInt(envVar string, defaultValue int) int {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
