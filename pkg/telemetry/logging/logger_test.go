package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "valid JSON config", config: Config{Level: "info", Format: "json", RedactPII: true}},
		{name: "valid text config", config: Config{Level: "debug", Format: "text"}},
		{name: "invalid log level", config: Config{Level: "invalid", Format: "json"}, wantErr: true},
		{name: "invalid format", config: Config{Level: "info", Format: "invalid"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.config.Writer = buf

			_, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		logMethod func(*Logger, string)
		wantLog   bool
	}{
		{"debug level logs debug", "debug", func(l *Logger, msg string) { l.Debug(msg) }, true},
		{"info level filters debug", "info", func(l *Logger, msg string) { l.Debug(msg) }, false},
		{"info level logs info", "info", func(l *Logger, msg string) { l.Info(msg) }, true},
		{"warn level filters info", "warn", func(l *Logger, msg string) { l.Info(msg) }, false},
		{"error level logs error", "error", func(l *Logger, msg string) { l.Error(msg) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger, err := New(Config{Level: tt.logLevel, Format: "json", Writer: buf})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			tt.logMethod(logger, "test message")

			hasLog := strings.Contains(buf.String(), "test message")
			if hasLog != tt.wantLog {
				t.Errorf("got log=%v, want log=%v, output=%s", hasLog, tt.wantLog, buf.String())
			}
		})
	}
}

func TestLoggerStructuredFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("test message", "status", 200, "attempts", 2)

	output := buf.String()
	for _, field := range []string{"test message", "status", "200", "attempts", "2"} {
		if !strings.Contains(output, field) {
			t.Errorf("expected field %q not found in output: %s", field, output)
		}
	}
}

func TestLoggerWith(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.With("request_id", "req-123").Info("test message")

	output := buf.String()
	for _, field := range []string{"request_id", "req-123", "test message"} {
		if !strings.Contains(output, field) {
			t.Errorf("expected field %q not found in output: %s", field, output)
		}
	}
}

func TestLoggerWithContext(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithRequestID(context.Background(), "req-456")
	ctx = WithTargetOrigin(ctx, "https://example.com")

	logger.WithContext(ctx).Info("test message")

	output := buf.String()
	for _, field := range []string{"request_id", "req-456", "target_origin", "example.com"} {
		if !strings.Contains(output, field) {
			t.Errorf("expected field %q not found in output: %s", field, output)
		}
	}
}

func TestLoggerPIIRedaction(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", RedactPII: true, Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("cookie received", "cookie", "proxyTargets=[\"https://a.example\"]; Domain=a.example")

	output := buf.String()
	if strings.Contains(output, `["https://a.example"]`) {
		t.Errorf("cookie value was not redacted in output: %s", output)
	}
}

func TestLoggerContextMethods(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "debug", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithRequestID(context.Background(), "req-789")

	logger.DebugContext(ctx, "debug message")
	if !strings.Contains(buf.String(), "req-789") {
		t.Errorf("context request_id not found: %s", buf.String())
	}
}

func TestLoggerFormats(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		t.Run(format, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger, err := New(Config{Level: "info", Format: format, Writer: buf})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			logger.Info("test message", "key", "value")
			if !strings.Contains(buf.String(), "test message") {
				t.Errorf("message not found in %s output: %s", format, buf.String())
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"debug", false}, {"DEBUG", false}, {"info", false}, {"", false},
		{"warn", false}, {"warning", false}, {"error", false},
		{"invalid", true}, {"trace", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"json", false}, {"", false}, {"text", false},
		{"invalid", true}, {"xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
