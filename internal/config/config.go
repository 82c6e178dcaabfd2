package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

const (
	configFileName = "config.yaml"

	// PathEnv overrides the location of the config file
	PathEnv = "JIRA_STATS_CONFIG"

	DefaultEndpoint          = "https://aarosystems.atlassian.net"
	DefaultWorkStartedStatus = "Implementing"
	DefaultFormat            = "csv"
)

// Config holds defaults for command line flags. Flags given explicitly always win.
type Config struct {
	// Endpoint is the base URL of the Jira instance
	Endpoint string `yaml:"endpoint"`
	// Username is the identity used for basic authentication, typically an email
	Username string `yaml:"username"`
	// WorkStartedStatus is the status name that marks the start of work on an issue
	WorkStartedStatus string `yaml:"workStartedStatus"`
	// Format is the report format, csv or yaml
	Format string `yaml:"format"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Endpoint:          DefaultEndpoint,
		WorkStartedStatus: DefaultWorkStartedStatus,
		Format:            DefaultFormat,
	}
}

// Path returns the location of the config file
func Path() string {
	if path := os.Getenv(PathEnv); path != "" {
		return path
	}
	return filepath.Join(MustConfigDir(), configFileName)
}

// Load loads the config file from Path. Returns defaults if the file doesn't exist.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile loads the config from path, filling unset values with defaults
func LoadFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var fromFile Config
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fromFile.Endpoint != "" {
		cfg.Endpoint = fromFile.Endpoint
	}
	if fromFile.Username != "" {
		cfg.Username = fromFile.Username
	}
	if fromFile.WorkStartedStatus != "" {
		cfg.WorkStartedStatus = fromFile.WorkStartedStatus
	}
	if fromFile.Format != "" {
		cfg.Format = fromFile.Format
	}

	return cfg, nil
}
