package logging

import "context"

// Context keys for fields this proxy commonly attaches to log lines.
type contextKey string

const (
	// RequestIDKey is the context key for the per-request ID.
	RequestIDKey contextKey = "request_id"

	// ClientIPKey is the context key for the client's fingerprinted IP.
	ClientIPKey contextKey = "client_ip"

	// TargetOriginKey is the context key for the upstream origin a
	// request was dispatched to.
	TargetOriginKey contextKey = "target_origin"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithClientIP adds the client's fingerprinted IP to the context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ClientIPKey, ip)
}

// GetClientIP retrieves the client's fingerprinted IP from the context.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ClientIPKey).(string); ok {
		return ip
	}
	return ""
}

// WithTargetOrigin adds the dispatched-to origin to the context.
func WithTargetOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, TargetOriginKey, origin)
}

// GetTargetOrigin retrieves the dispatched-to origin from the context.
func GetTargetOrigin(ctx context.Context) string {
	if origin, ok := ctx.Value(TargetOriginKey).(string); ok {
		return origin
	}
	return ""
}

// extractContextFields extracts the fields above for logging. Returns a
// slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if ip := GetClientIP(ctx); ip != "" {
		fields = append(fields, "client_ip", ip)
	}
	if origin := GetTargetOrigin(ctx); origin != "" {
		fields = append(fields, "target_origin", origin)
	}

	return fields
}

// ContextLogger is a logger that automatically includes context fields.
type ContextLogger struct {
	logger *Logger
	ctx    context.Context
}

// NewContextLogger creates a logger that automatically includes context fields.
func NewContextLogger(logger *Logger, ctx context.Context) *ContextLogger {
	return &ContextLogger{
		logger: logger.WithContext(ctx),
		ctx:    ctx,
	}
}

// Debug logs a debug message with context fields.
func (cl *ContextLogger) Debug(msg string, args ...any) {
	cl.logger.DebugContext(cl.ctx, msg, args...)
}

// Info logs an info message with context fields.
func (cl *ContextLogger) Info(msg string, args ...any) {
	cl.logger.InfoContext(cl.ctx, msg, args...)
}

// Warn logs a warning message with context fields.
func (cl *ContextLogger) Warn(msg string, args ...any) {
	cl.logger.WarnContext(cl.ctx, msg, args...)
}

// Error logs an error message with context fields.
func (cl *ContextLogger) Error(msg string, args ...any) {
	cl.logger.ErrorContext(cl.ctx, msg, args...)
}

// With creates a new context logger with additional fields.
func (cl *ContextLogger) With(args ...any) *ContextLogger {
	return &ContextLogger{
		logger: cl.logger.With(args...),
		ctx:    cl.ctx,
	}
}
