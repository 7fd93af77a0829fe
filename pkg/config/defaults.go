package config

import "time"

// DefaultListenAddress is used when ProxyConfig.ListenAddress is unset.
const DefaultListenAddress = "127.0.0.1:3000"

// DefaultFallbackOrigin is used when OriginConfig.FallbackOrigin is unset.
const DefaultFallbackOrigin = "https://www.example.com"

// DefaultWindowMS and DefaultLimit are the spec's rate limiter defaults.
const (
	DefaultWindowMS = 3000
	DefaultLimit    = 10
)

// DefaultConfig returns a Config populated entirely with defaults, suitable
// for running the proxy with zero configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in zero-valued fields of cfg with default values.
// Fields already set (by a loaded YAML file) are left untouched.
func ApplyDefaults(cfg *Config) {
	if cfg.Proxy.ListenAddress == "" {
		cfg.Proxy.ListenAddress = DefaultListenAddress
	}
	if cfg.Proxy.ReadTimeout == 0 {
		cfg.Proxy.ReadTimeout = 30 * time.Second
	}
	if cfg.Proxy.WriteTimeout == 0 {
		cfg.Proxy.WriteTimeout = 30 * time.Second
	}
	if cfg.Proxy.IdleTimeout == 0 {
		cfg.Proxy.IdleTimeout = 120 * time.Second
	}
	if cfg.Proxy.ShutdownTimeout == 0 {
		cfg.Proxy.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Proxy.MaxHeaderBytes == 0 {
		cfg.Proxy.MaxHeaderBytes = 1 << 20
	}

	if cfg.Origin.FallbackOrigin == "" {
		cfg.Origin.FallbackOrigin = DefaultFallbackOrigin
	}
	if cfg.Origin.ProxyHost == "" {
		cfg.Origin.ProxyHost = cfg.Proxy.ListenAddress
	}

	if cfg.RateLimit.WindowMS == 0 {
		cfg.RateLimit.WindowMS = DefaultWindowMS
	}
	if cfg.RateLimit.Limit == 0 {
		cfg.RateLimit.Limit = DefaultLimit
	}

	if cfg.CSP.ReportLogPath == "" {
		cfg.CSP.ReportLogPath = "csp_reports.db"
	}
	if cfg.CSP.RetentionDays == 0 {
		cfg.CSP.RetentionDays = 14
	}
	if cfg.CSP.PruneSchedule == "" {
		cfg.CSP.PruneSchedule = "0 * * * *"
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "json"
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = "/metrics"
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = "originproxy"
	}
}

// CSPTemplate is the fixed permissive Content-Security-Policy template from
// spec.md §6, with <PROXY_HOST> substituted at use time.
const CSPTemplate = "default-src 'self' data: 'unsafe-inline' 'unsafe-eval' https:; " +
	"script-src 'self' data: 'unsafe-inline' 'unsafe-eval' https: blob:; " +
	"style-src 'self' data: 'unsafe-inline' https:; " +
	"img-src 'self' data: https: blob:; " +
	"font-src 'self' data: https:; " +
	"connect-src 'self' data: https: wss: blob:; " +
	"media-src 'self' data: https: blob:; " +
	"object-src 'self' https:; " +
	"child-src 'self' https: data: blob:; " +
	"form-action 'self' https:; " +
	"report-uri http://%s/debug/csp"
