package config

import "time"

// Config is the root configuration for the origin proxy.
type Config struct {
	// Proxy contains HTTP server configuration.
	Proxy ProxyConfig `yaml:"proxy"`

	// Origin contains origin-resolution configuration.
	Origin OriginConfig `yaml:"origin"`

	// RateLimit contains the per-fingerprint sliding-window limiter settings.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// CSP contains the permissive Content-Security-Policy template applied
	// to upstream responses, and the report sink's storage settings.
	CSP CSPConfig `yaml:"csp"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ProxyConfig contains configuration for the HTTP server.
type ProxyConfig struct {
	// ListenAddress is the address the proxy listens on.
	// Default: "127.0.0.1:3000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout bounds how long reading a request may take.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds how long writing a response may take.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout bounds how long a keep-alive connection may idle.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown's connection draining.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// OriginConfig contains origin-resolution configuration.
type OriginConfig struct {
	// FallbackOrigin is used when no origin can be resolved from the path
	// or the proxyTargets cookie.
	// Default: "https://www.example.com"
	FallbackOrigin string `yaml:"fallback_origin"`

	// ProxyHost is the authority this proxy presents itself as in rewritten
	// URLs and cookie domains. Default is derived from ListenAddress.
	ProxyHost string `yaml:"proxy_host"`

	// CookieSecure controls whether the proxyTargets cookie carries the
	// Secure attribute. Left implementation-configurable per spec.
	CookieSecure bool `yaml:"cookie_secure"`
}

// RateLimitConfig contains RateLimiter settings.
type RateLimitConfig struct {
	// WindowMS is the sliding window size in milliseconds.
	// Default: 3000
	WindowMS int `yaml:"window_ms"`

	// Limit is the maximum number of attempts per fingerprint within the
	// window, inclusive of the current attempt. Default: 10
	Limit int `yaml:"limit"`
}

// CSPConfig contains the CSP report sink's storage and retention settings.
type CSPConfig struct {
	// ReportLogPath is the SQLite database file backing the CSP report log.
	// Default: "csp_reports.db"
	ReportLogPath string `yaml:"report_log_path"`

	// RetentionDays bounds how long CSP reports are kept in the log.
	// Default: 14
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression controlling the retention sweep.
	// Default: "0 * * * *" (hourly)
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains logging and metrics configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error". Default: "info"
	Level string `yaml:"level"`

	// Format is one of "json", "text". Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled is not read by the server: /metrics is always registered.
	Enabled bool `yaml:"enabled"`

	// Path is not read by the server, which serves metrics at "/metrics"
	// whatever its value. Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes all metric names. Default: "originproxy"
	Namespace string `yaml:"namespace"`
}
