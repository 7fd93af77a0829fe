package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/relayhq/originproxy/pkg/config"
)

// Collector owns the Prometheus registry and all metrics the proxy
// records per §4.9: request outcomes, rewrite latency, dispatch attempts,
// and rate-limiter rejections.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  prometheus.Histogram
	rewriteDuration  prometheus.Histogram
	dispatchAttempts prometheus.Histogram
	rateLimitReject  prometheus.Counter
}

// Outcome labels for requestsTotal, matching the error kinds of §7 that
// are externally observable as a final status.
const (
	OutcomeOK            = "ok"
	OutcomeRateLimited   = "rate_limited"
	OutcomeUpstreamError = "upstream_error"
	OutcomeInternalError = "internal_error"
)

// NewCollector creates a Collector registered against registry. If
// registry is nil, a fresh one is used.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "originproxy"
	}

	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total client requests by outcome.",
			},
			[]string{"outcome"},
		),
		requestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "End-to-end client request duration.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		rewriteDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rewrite_duration_seconds",
				Help:      "Time spent rewriting a textual response body.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
		),
		dispatchAttempts: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_attempts",
				Help:      "Number of upstream candidates attempted per request.",
				Buckets:   []float64{1, 2, 3, 4, 5, 8},
			},
		),
		rateLimitReject: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_rejections_total",
				Help:      "Requests short-circuited by the RateLimiter before dispatch.",
			},
		),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.rewriteDuration,
		c.dispatchAttempts,
		c.rateLimitReject,
	)

	return c
}

// RecordRequest records one completed client request.
func (c *Collector) RecordRequest(outcome string, duration time.Duration) {
	c.requestsTotal.WithLabelValues(outcome).Inc()
	c.requestDuration.Observe(duration.Seconds())
}

// RecordRewrite records the time spent rewriting one textual response body.
func (c *Collector) RecordRewrite(duration time.Duration) {
	c.rewriteDuration.Observe(duration.Seconds())
}

// RecordDispatchAttempts records how many candidates a request's dispatch
// went through before settling on a response.
func (c *Collector) RecordDispatchAttempts(attempts int) {
	c.dispatchAttempts.Observe(float64(attempts))
}

// RecordRateLimitRejection records one 429 short-circuit.
func (c *Collector) RecordRateLimitRejection() {
	c.rateLimitReject.Inc()
}

// Registry returns the registry backing this collector, for mounting a
// /metrics handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
