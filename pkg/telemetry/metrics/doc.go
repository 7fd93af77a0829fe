// Package metrics exposes the proxy's Prometheus metrics per §4.9: total
// requests by outcome, rewrite latency, dispatch attempts per request,
// and rate-limiter rejections, served on GET /metrics.
package metrics
