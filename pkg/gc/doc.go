// Package gc runs the proxy's periodic housekeeping: a cron-scheduled
// sweep that prunes the CSP-report log past its retention window and logs
// rate-limiter queue depth. This is pure housekeeping — the RateLimiter's
// correctness never depends on it running, since eviction already happens
// inline on every attempt; the sweep exists only to bound the CSP-report
// log's disk usage during idle periods.
package gc
