package cspreports

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/relayhq/originproxy/pkg/telemetry/logging"
)

// maxReportBody bounds how much of the request body Handler will read,
// since report-uri POSTs are attacker-reachable.
const maxReportBody = 64 << 10

// Handler serves POST /debug/csp: parse, log, store, and always reply 200
// so a misbehaving or slow report sink never surfaces to the browser that
// sent it.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a Handler backed by store.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxReportBody+1))
	if err != nil || len(body) > maxReportBody {
		w.WriteHeader(http.StatusOK)
		return
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		h.logger.WarnContext(r.Context(), "csp report: malformed body", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	report := &Report{
		ID:                 uuid.New().String(),
		ReceivedAt:         timeNow(),
		ClientIP:           r.RemoteAddr,
		DocumentURI:        env.CSPReport.DocumentURI,
		Referrer:           env.CSPReport.Referrer,
		ViolatedDirective:  env.CSPReport.ViolatedDirective,
		EffectiveDirective: env.CSPReport.EffectiveDirective,
		OriginalPolicy:     env.CSPReport.OriginalPolicy,
		BlockedURI:         env.CSPReport.BlockedURI,
		StatusCode:         env.CSPReport.StatusCode,
	}

	h.logger.InfoContext(r.Context(), "csp violation reported",
		"document_uri", report.DocumentURI,
		"violated_directive", report.ViolatedDirective,
		"blocked_uri", report.BlockedURI,
	)

	if err := h.store.Insert(r.Context(), report); err != nil {
		h.logger.ErrorContext(r.Context(), "csp report: store failed", "error", err)
	}

	w.WriteHeader(http.StatusOK)
}
