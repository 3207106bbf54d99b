package config

import (
	"os"
	"path/filepath"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "BUCKETS_CONFIG"

// GetConfigPath returns the configuration file path. It first checks the
// BUCKETS_CONFIG environment variable, then falls back to the default
// location (~/.buckets/config).
func GetConfigPath() (string, error) {
	if configPath := os.Getenv(EnvConfigPath); configPath != "" {
		return configPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".buckets", "config"), nil
}
