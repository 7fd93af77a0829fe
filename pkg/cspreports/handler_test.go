package cspreports

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/relayhq/originproxy/pkg/telemetry/logging"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	logger, err := logging.New(logging.Config{Level: "error", Format: "json"})
	if err != nil {
		t.Fatalf("logging.New() error = %v", err)
	}
	return logger
}

func TestHandlerStoresValidReport(t *testing.T) {
	store := openTestStore(t)
	handler := NewHandler(store, testLogger(t))

	body := `{"csp-report":{"document-uri":"https://example.com/","violated-directive":"script-src","blocked-uri":"https://evil.example"}}`
	req := httptest.NewRequest(http.MethodPost, "/debug/csp", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	count, err := store.Count(req.Context())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestHandlerMalformedBodyStillReturns200(t *testing.T) {
	store := openTestStore(t)
	handler := NewHandler(store, testLogger(t))

	req := httptest.NewRequest(http.MethodPost, "/debug/csp", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestHandlerRejectsNonPost(t *testing.T) {
	store := openTestStore(t)
	handler := NewHandler(store, testLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/debug/csp", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
