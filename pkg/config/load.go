package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at path, applies defaults
// for anything left unset, applies MERCATOR_-style environment overrides
// (here ORIGINPROXY_SECTION_FIELD), and validates the result.
//
// If path does not exist, LoadConfig returns a default configuration rather
// than an error, matching the proxy's "no configuration required" scope.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	case os.IsNotExist(err):
		// zero-value cfg; defaults fill the rest.
	default:
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies ORIGINPROXY_SECTION_FIELD environment overrides.
// Environment variables always take precedence over file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("ORIGINPROXY_PROXY_LISTEN_ADDRESS"); val != "" {
		cfg.Proxy.ListenAddress = val
	}
	if val := os.Getenv("ORIGINPROXY_PROXY_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Proxy.ReadTimeout = d
		}
	}
	if val := os.Getenv("ORIGINPROXY_PROXY_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Proxy.WriteTimeout = d
		}
	}

	if val := os.Getenv("ORIGINPROXY_ORIGIN_FALLBACK_ORIGIN"); val != "" {
		cfg.Origin.FallbackOrigin = val
	}
	if val := os.Getenv("ORIGINPROXY_ORIGIN_PROXY_HOST"); val != "" {
		cfg.Origin.ProxyHost = val
	}
	if val := os.Getenv("ORIGINPROXY_ORIGIN_COOKIE_SECURE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Origin.CookieSecure = b
		}
	}

	if val := os.Getenv("ORIGINPROXY_RATE_LIMIT_WINDOW_MS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.RateLimit.WindowMS = i
		}
	}
	if val := os.Getenv("ORIGINPROXY_RATE_LIMIT_LIMIT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.RateLimit.Limit = i
		}
	}

	if val := os.Getenv("ORIGINPROXY_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("ORIGINPROXY_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
}
