// Package config provides configuration management for the importer.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Freetrade FreetradeConfig
	Beancount BeancountConfig
	Debug     bool
}

// FreetradeConfig represents the Freetrade account being imported.
type FreetradeConfig struct {
	Account     string // FREETRADE_ACCOUNT
	ProfilePath string // FREETRADE_PROFILE, a YAML profile
}

// BeancountConfig represents Beancount-related configuration.
type BeancountConfig struct {
	Root   string // BEANCOUNT_ROOT
	DBPath string // BEANCOUNT_DB_PATH
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	debug, err := parseBoolEnv("DEBUG", false)
	if err != nil {
		return nil, fmt.Errorf("invalid DEBUG: %w", err)
	}

	return &Config{
		Freetrade: FreetradeConfig{
			Account:     os.Getenv("FREETRADE_ACCOUNT"),
			ProfilePath: os.Getenv("FREETRADE_PROFILE"),
		},
		Beancount: BeancountConfig{
			Root:   os.Getenv("BEANCOUNT_ROOT"),
			DBPath: os.Getenv("BEANCOUNT_DB_PATH"),
		},
		Debug: debug,
	}, nil
}

// Validate checks that every required key is set. Keys are dot paths such as
// "freetrade.account" or "beancount.root".
func (c *Config) Validate(required ...string) error {
	var missing []string

	for _, key := range required {
		var value string
		switch key {
		case "freetrade.account":
			value = c.Freetrade.Account
		case "freetrade.profile":
			value = c.Freetrade.ProfilePath
		case "beancount.root":
			value = c.Beancount.Root
		case "beancount.dbPath":
			value = c.Beancount.DBPath
		default:
			return fmt.Errorf("unknown configuration key %q", key)
		}

		if value == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s\nPlease check your .env file or environment variables", strings.Join(missing, ", "))
	}

	return nil
}

// parseBoolEnv parses a bool from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value for %s: %s", key, value)
	}

	return parsed, nil
}
