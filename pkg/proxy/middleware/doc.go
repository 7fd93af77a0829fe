// Package middleware provides HTTP middleware for cross-cutting concerns:
// request ID propagation, structured request/response logging, panic
// recovery, and per-request timeouts.
//
// # Middleware Chain
//
//	handler = RequestIDMiddleware(RecoveryMiddleware(LoggingMiddleware(TimeoutMiddleware(t)(handler))))
//
// Order (innermost to outermost):
//  1. Timeout: enforce a per-request deadline
//  2. Logging: log request/response details
//  3. Recovery: recover from panics, return 500 with the error's text form
//  4. RequestID: generate and propagate a request ID (UUID v4), so the
//     layers inside it can log it
//
// CORS is not a middleware concern here: Access-Control-Allow-Origin is set
// unconditionally by the header translator (see pkg/headers) on every
// proxied response, per the fixed header table.
//
// # Context Values
//
// Middleware stores only ambient values in context — request ID and start
// time. Domain state (candidates, fingerprint, the rewritten request URL)
// is threaded through the proxy pipeline as an explicit value, not via
// context, per the design notes.
package middleware
