package backend

import (
	"os"
	"strconv"
)

// Config holds all configuration for talking to the reporting backend.
type Config struct {
	BaseURL    string
	TimeoutMs  int
	MaxRetries int
	LogCalls   bool
}

// DefaultConfig returns a Config with sensible defaults for a locally
// running backend.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:5000",
		TimeoutMs:  10000,
		MaxRetries: 1,
		LogCalls:   false,
	}
}

// LoadConfig reads backend configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("SITELOG_BACKEND_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("SITELOG_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("SITELOG_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("SITELOG_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}

	return cfg
}
