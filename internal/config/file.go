package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileVars is the optional YAML configuration file. Environment variables
// always win over file values so deployments can override a checked-in file.
type FileVars struct {
	Port       string `yaml:"port"`
	AppName    string `yaml:"app_name"`
	DataFolder string `yaml:"data_folder"`

	API struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"api"`

	PurchasePoll struct {
		IntervalSeconds int `yaml:"interval_seconds"`
		MaxAttempts     int `yaml:"max_attempts"`
	} `yaml:"purchase_poll"`
}

type fileConfig struct {
	EnvVars
	file FileVars
}

var _ Config = fileConfig{}

// NewFromFile loads a YAML configuration file layered beneath the
// environment variables.
func NewFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("[config NewFromFile] reading %q: %w", path, err)
	}

	var file FileVars
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("[config NewFromFile] parsing %q: %w", path, err)
	}

	return fileConfig{file: file}, nil
}

func (c fileConfig) GetPort() string {
	if os.Getenv(portEnvVar) == "" && c.file.Port != "" {
		port := c.file.Port
		if port[0] != ':' {
			port = ":" + port
		}
		return port
	}
	return c.EnvVars.GetPort()
}

func (c fileConfig) GetAppName() string {
	if os.Getenv(appNameVar) == "" && c.file.AppName != "" {
		return c.file.AppName
	}
	return c.EnvVars.GetAppName()
}

func (c fileConfig) GetDataFolder() string {
	if os.Getenv(folderEnvVar) == "" && c.file.DataFolder != "" {
		return c.file.DataFolder
	}
	return c.EnvVars.GetDataFolder()
}

func (c fileConfig) GetAPIBaseURL() string {
	if os.Getenv(apiBaseURLVar) == "" && c.file.API.BaseURL != "" {
		return c.file.API.BaseURL
	}
	return c.EnvVars.GetAPIBaseURL()
}

func (c fileConfig) GetAPITimeoutSeconds() int {
	if os.Getenv("API_TIMEOUT_SECONDS") == "" && c.file.API.TimeoutSeconds > 0 {
		return c.file.API.TimeoutSeconds
	}
	return c.EnvVars.GetAPITimeoutSeconds()
}

func (c fileConfig) GetPurchasePollIntervalSeconds() int {
	if os.Getenv("PURCHASE_POLL_INTERVAL_SECONDS") == "" && c.file.PurchasePoll.IntervalSeconds > 0 {
		return c.file.PurchasePoll.IntervalSeconds
	}
	return c.EnvVars.GetPurchasePollIntervalSeconds()
}

func (c fileConfig) GetPurchasePollMaxAttempts() int {
	if os.Getenv("PURCHASE_POLL_MAX_ATTEMPTS") == "" && c.file.PurchasePoll.MaxAttempts > 0 {
		return c.file.PurchasePoll.MaxAttempts
	}
	return c.EnvVars.GetPurchasePollMaxAttempts()
}
