package logging

import (
	"context"
	"testing"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()

	ctx = WithRequestID(ctx, "req-123")
	if got := GetRequestID(ctx); got != "req-123" {
		t.Errorf("GetRequestID() = %q, want %q", got, "req-123")
	}

	ctx = WithClientIP(ctx, "203.0.113.5")
	if got := GetClientIP(ctx); got != "203.0.113.5" {
		t.Errorf("GetClientIP() = %q, want %q", got, "203.0.113.5")
	}

	ctx = WithTargetOrigin(ctx, "https://example.com")
	if got := GetTargetOrigin(ctx); got != "https://example.com" {
		t.Errorf("GetTargetOrigin() = %q, want %q", got, "https://example.com")
	}
}

func TestContextKeysEmpty(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		get  func(context.Context) string
	}{
		{"RequestID", GetRequestID},
		{"ClientIP", GetClientIP},
		{"TargetOrigin", GetTargetOrigin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.get(ctx); got != "" {
				t.Errorf("Get%s() = %q, want empty string", tt.name, got)
			}
		})
	}
}

func TestExtractContextFields(t *testing.T) {
	tests := []struct {
		name       string
		setupCtx   func(context.Context) context.Context
		wantFields map[string]string
	}{
		{
			name:       "empty context",
			setupCtx:   func(ctx context.Context) context.Context { return ctx },
			wantFields: map[string]string{},
		},
		{
			name:       "request ID only",
			setupCtx:   func(ctx context.Context) context.Context { return WithRequestID(ctx, "req-123") },
			wantFields: map[string]string{"request_id": "req-123"},
		},
		{
			name: "all fields",
			setupCtx: func(ctx context.Context) context.Context {
				ctx = WithRequestID(ctx, "req-789")
				ctx = WithClientIP(ctx, "203.0.113.5")
				ctx = WithTargetOrigin(ctx, "https://example.com")
				return ctx
			},
			wantFields: map[string]string{
				"request_id":    "req-789",
				"client_ip":     "203.0.113.5",
				"target_origin": "https://example.com",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.setupCtx(context.Background())
			fields := extractContextFields(ctx)

			fieldsMap := make(map[string]string)
			for i := 0; i < len(fields); i += 2 {
				key := fields[i].(string)
				value := fields[i+1].(string)
				fieldsMap[key] = value
			}

			for key, expectedValue := range tt.wantFields {
				if gotValue, ok := fieldsMap[key]; !ok {
					t.Errorf("expected field %q not found", key)
				} else if gotValue != expectedValue {
					t.Errorf("field %q = %q, want %q", key, gotValue, expectedValue)
				}
			}

			if len(fieldsMap) != len(tt.wantFields) {
				t.Errorf("got %d fields, want %d. fields: %v", len(fieldsMap), len(tt.wantFields), fieldsMap)
			}
		})
	}
}

func TestContextLogger(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-cl-1")

	logger, err := New(Config{Level: "info", Format: "json"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctxLogger := NewContextLogger(logger, ctx)
	if ctxLogger == nil {
		t.Fatal("NewContextLogger returned nil")
	}

	ctxLogger.Debug("debug message")
	ctxLogger.Info("info message")
	ctxLogger.Warn("warn message")
	ctxLogger.Error("error message")

	childLogger := ctxLogger.With("extra", "value")
	if childLogger == nil {
		t.Fatal("ContextLogger.With returned nil")
	}
	childLogger.Info("child message")
}

func TestContextChaining(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-chain-1")
	ctx = WithClientIP(ctx, "203.0.113.5")

	if got := GetRequestID(ctx); got != "req-chain-1" {
		t.Errorf("GetRequestID() = %q, want %q", got, "req-chain-1")
	}
	if got := GetClientIP(ctx); got != "203.0.113.5" {
		t.Errorf("GetClientIP() = %q, want %q", got, "203.0.113.5")
	}

	ctx = WithTargetOrigin(ctx, "https://example.com")
	if got := GetTargetOrigin(ctx); got != "https://example.com" {
		t.Errorf("GetTargetOrigin() = %q, want %q", got, "https://example.com")
	}
	if got := GetRequestID(ctx); got != "req-chain-1" {
		t.Errorf("original value changed: GetRequestID() = %q, want %q", got, "req-chain-1")
	}
}

func TestContextOverwrite(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-old")
	ctx = WithRequestID(ctx, "req-new")

	if got := GetRequestID(ctx); got != "req-new" {
		t.Errorf("GetRequestID() = %q, want %q", got, "req-new")
	}
}

func BenchmarkExtractContextFields(b *testing.B) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-bench")
	ctx = WithClientIP(ctx, "203.0.113.5")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = extractContextFields(ctx)
	}
}

func BenchmarkWithRequestID(b *testing.B) {
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = WithRequestID(ctx, "req-123")
	}
}

func BenchmarkGetRequestID(b *testing.B) {
	ctx := WithRequestID(context.Background(), "req-123")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GetRequestID(ctx)
	}
}
