// Package cspreports gives the debug CSP-report sink a durable home.
//
// Browsers POST CSP violation reports to the report-uri baked into the
// Content-Security-Policy header the proxy attaches to every upstream
// response (pkg/config.CSPTemplate). This package parses those reports,
// logs them, and appends them to a small SQLite-backed log so an operator
// can inspect recent violations without changing the proxy's externally
// observable behavior — the endpoint still always replies 200.
package cspreports
