package config

import "fmt"

// Validate checks a Config for internally inconsistent values. It assumes
// ApplyDefaults has already run, so only explicit misconfigurations (not
// absence) are reported.
func Validate(cfg *Config) error {
	if cfg.Proxy.ListenAddress == "" {
		return fmt.Errorf("proxy.listen_address must not be empty")
	}
	if cfg.RateLimit.WindowMS <= 0 {
		return fmt.Errorf("rate_limit.window_ms must be positive, got %d", cfg.RateLimit.WindowMS)
	}
	if cfg.RateLimit.Limit <= 0 {
		return fmt.Errorf("rate_limit.limit must be positive, got %d", cfg.RateLimit.Limit)
	}
	if cfg.CSP.RetentionDays < 0 {
		return fmt.Errorf("csp.retention_days must not be negative, got %d", cfg.CSP.RetentionDays)
	}
	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level must be one of debug|info|warn|error, got %q", cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format must be one of json|text, got %q", cfg.Telemetry.Logging.Format)
	}
	return nil
}
