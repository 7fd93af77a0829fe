package middleware

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// Context keys for storing ambient, cross-cutting values in request context.
// Domain state (candidates, fingerprint, rewritten URL) is threaded through
// the proxy pipeline as an explicit value, not via context.
const (
	// RequestIDKey stores the unique request ID.
	RequestIDKey contextKey = "request_id"

	// StartTimeKey stores the request start time for latency calculation.
	StartTimeKey contextKey = "start_time"
)
