// Package telemetry groups the proxy's observability packages.
//
// # Components
//
//   - logging: structured logging via log/slog, with PII redaction for
//     cookie values, bearer tokens, and client IPs
//   - metrics: Prometheus counters and histograms for request outcomes,
//     rewrite latency, dispatch attempts, and rate-limit rejections
//
// There is no aggregator type; callers construct a logging.Logger and a
// metrics.Collector directly from config.TelemetryConfig and wire them
// into the server explicitly.
package telemetry
