// Package ratelimit implements the proxy's per-fingerprint sliding-window
// rate limiter.
//
// # Algorithm
//
// A single process-wide FIFO of (fingerprint, timestamp) entries backs the
// limiter. On every attempt:
//
//  1. Append the current entry.
//  2. Evict every entry older than the window.
//  3. Count the remaining entries matching the current fingerprint.
//  4. If the count exceeds the limit, the attempt is exceeded.
//
// The current attempt is included in its own count, so a limit of 10 allows
// exactly 10 attempts per window before the 11th is rejected.
//
// # Thread Safety
//
// Limiter is thread-safe: the append-evict-count sequence runs under a
// single mutex so it is atomic across concurrent requests.
package ratelimit
