// Package pipeline wires the proxy's per-request components together:
// cookie decode, origin resolution, dispatch, header/body translation, and
// cookie-list mutation. State that crosses these stages is threaded as an
// explicit requestContext value rather than attached to the request's
// context.Context, so the pipeline's own domain state stays visible in one
// place instead of scattered across ambient context keys.
package pipeline

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/relayhq/originproxy/pkg/config"
	"github.com/relayhq/originproxy/pkg/dispatch"
	"github.com/relayhq/originproxy/pkg/headers"
	"github.com/relayhq/originproxy/pkg/origin"
	"github.com/relayhq/originproxy/pkg/ratelimit"
	"github.com/relayhq/originproxy/pkg/telemetry/logging"
	"github.com/relayhq/originproxy/pkg/telemetry/metrics"
)

// requestContext carries the per-request domain state the pipeline's
// stages need, replacing the ad-hoc per-request fields a naive port would
// attach to the request object.
type requestContext struct {
	list        origin.List
	resolution  origin.Resolution
	fingerprint ratelimit.Fingerprint
}

// Pipeline is the proxy's request handler: origin resolution through
// response translation, everything but the /debug/csp, /health, and
// /metrics endpoints.
type Pipeline struct {
	Store      *config.Store
	Resolver   *origin.Resolver
	Dispatcher *dispatch.Dispatcher
	Metrics    *metrics.Collector
	Logger     *logging.Logger
}

// New creates a Pipeline from its components.
func New(store *config.Store, resolver *origin.Resolver, dispatcher *dispatch.Dispatcher, collector *metrics.Collector, logger *logging.Logger) *Pipeline {
	return &Pipeline{
		Store:      store,
		Resolver:   resolver,
		Dispatcher: dispatcher,
		Metrics:    collector,
		Logger:     logger,
	}
}

func (p *Pipeline) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := timeNow()
	cfg := p.Store.Get()

	rc := p.buildRequestContext(r)

	outcome, err := p.Dispatcher.Dispatch(r.Context(), r, rc.resolution, rc.fingerprint)
	if err != nil {
		p.writeError(w, r, err, start)
		return
	}

	p.writeOutcome(w, r, cfg, rc, outcome)
	p.Metrics.RecordRequest(metrics.OutcomeOK, time.Since(start))
	p.Metrics.RecordDispatchAttempts(outcome.Attempts)
}

func (p *Pipeline) buildRequestContext(r *http.Request) requestContext {
	list := decodeListCookie(r)
	resolution := p.Resolver.Resolve(r.URL.Path, list)

	primary := resolution.Candidates[0].Origin
	fp := ratelimit.Fingerprint{
		ClientIP:  clientIP(r),
		UserAgent: r.UserAgent(),
		Origin:    string(primary),
		Path:      r.URL.Path,
	}

	return requestContext{list: list, resolution: resolution, fingerprint: fp}
}

func (p *Pipeline) writeOutcome(w http.ResponseWriter, r *http.Request, cfg *config.Config, rc requestContext, outcome *dispatch.Outcome) {
	proxyHost := cfg.Origin.ProxyHost
	contentType := outcome.Header.Get("Content-Type")

	rewriteStart := timeNow()
	body := dispatch.RelayBody(contentType, outcome.Body, proxyHost)
	p.Metrics.RecordRewrite(time.Since(rewriteStart))

	translated := headers.FromUpstream(outcome.Header, proxyHost, config.CSPTemplate)

	newList := origin.Mutate(rc.list, outcome.Chosen, outcome.StatusCode, r.Method, isHTML(contentType))
	if encoded, err := newList.Encode(); err == nil {
		// net/http drops '"' from cookie values, so the JSON list is
		// URL-escaped on the wire.
		http.SetCookie(w, &http.Cookie{
			Name:     origin.CookieName,
			Value:    url.QueryEscape(encoded),
			HttpOnly: true,
			Secure:   cfg.Origin.CookieSecure,
			Path:     "/",
		})
	} else {
		p.Logger.WarnContext(r.Context(), "pipeline: proxyTargets cookie encode failed", "error", err)
	}

	for name, values := range translated {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))

	w.WriteHeader(outcome.StatusCode)
	if _, err := w.Write(body); err != nil {
		p.Logger.ErrorContext(r.Context(), "pipeline: body write failed", "error", err)
	}
}

// writeError maps a dispatch error to a client response per §7.
func (p *Pipeline) writeError(w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	var rateLimited *dispatch.RateLimitedError
	if errors.As(err, &rateLimited) {
		w.WriteHeader(http.StatusTooManyRequests)
		p.Metrics.RecordRequest(metrics.OutcomeRateLimited, time.Since(start))
		p.Metrics.RecordRateLimitRejection()
		return
	}

	var transportErr *dispatch.UpstreamTransportError
	if errors.As(err, &transportErr) {
		p.Logger.ErrorContext(r.Context(), "pipeline: upstream transport error", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		p.Metrics.RecordRequest(metrics.OutcomeUpstreamError, time.Since(start))
		return
	}

	var invalidURL *dispatch.InvalidUpstreamURLError
	var noCandidates *dispatch.NoCandidatesError
	if errors.As(err, &invalidURL) || errors.As(err, &noCandidates) {
		p.Logger.ErrorContext(r.Context(), "pipeline: dispatch failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		p.Metrics.RecordRequest(metrics.OutcomeInternalError, time.Since(start))
		return
	}

	p.Logger.ErrorContext(r.Context(), "pipeline: unhandled dispatch error", "error", err)
	http.Error(w, fmt.Sprintf("%v", err), http.StatusInternalServerError)
	p.Metrics.RecordRequest(metrics.OutcomeInternalError, time.Since(start))
}

// decodeListCookie reads the proxyTargets cookie, whose value is the
// URL-escaped JSON list; absent or malformed decodes to an empty list, per
// §4.6.
func decodeListCookie(r *http.Request) origin.List {
	c, err := r.Cookie(origin.CookieName)
	if err != nil {
		return nil
	}
	value, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	return origin.DecodeList(value)
}

// clientIP strips the port from RemoteAddr, falling back to the raw value
// if it isn't a host:port pair.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func isHTML(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "html")
}

func timeNow() time.Time { return time.Now() }
