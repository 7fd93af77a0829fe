package middleware

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware enforces a per-request timeout using context.WithTimeout.
// If the timeout is exceeded before the handler finishes, the request
// context is cancelled (triggering upstream request cancellation per §5)
// and a 504 Gateway Timeout response is written.
//
// Example usage:
//
//	handler = TimeoutMiddleware(60 * time.Second)(handler)
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			done := make(chan struct{})
			panicked := make(chan any, 1)
			go func() {
				defer close(done)
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(w, r.WithContext(ctx))
			}()

			select {
			case <-done:
				// Re-raise a handler panic on this goroutine so an outer
				// RecoveryMiddleware can handle it.
				select {
				case p := <-panicked:
					panic(p)
				default:
				}
				return
			case <-ctx.Done():
				if ctx.Err() == context.DeadlineExceeded {
					w.Header().Set("Content-Type", "text/plain; charset=utf-8")
					w.WriteHeader(http.StatusGatewayTimeout)
					_, _ = w.Write([]byte("request timeout: the request took too long to complete"))
				}
			}
		})
	}
}
