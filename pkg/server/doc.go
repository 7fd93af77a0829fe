// Package server ties the proxy's components into a runnable process: the
// request pipeline, the CSP report sink, the retention sweeper, and an
// http.Server with graceful shutdown.
//
// # Routes
//
//   - POST /debug/csp  - CSP violation report sink, always replies 200
//   - GET  /health     - liveness probe, always replies 200
//   - GET  /metrics    - Prometheus exposition format
//   - *    /...        - the proxy pipeline (origin resolution, rewrite,
//     dispatch, header/cookie translation)
//
// # Middleware chain
//
// Innermost to outermost: Timeout, Logging, Recovery, RequestID. See
// pkg/proxy/middleware for why CORS isn't a middleware concern here.
//
// # Shutdown
//
// Start blocks until ctx is cancelled or SIGTERM/SIGINT arrives, then stops
// accepting new connections, waits out the configured shutdown timeout for
// in-flight requests, and stops the retention sweeper.
package server
