package dispatch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/relayhq/originproxy/pkg/headers"
	"github.com/relayhq/originproxy/pkg/origin"
	"github.com/relayhq/originproxy/pkg/ratelimit"
	"github.com/relayhq/originproxy/pkg/rewrite"
)

// noBodyMethods are the methods for which §4.4.1 says the request body is
// "none" regardless of what the client sent.
var noBodyMethods = map[string]bool{
	http.MethodGet:   true,
	http.MethodHead:  true,
	http.MethodTrace: true,
}

// Outcome is the result dispatch hands back to the caller for writing to
// the client: the response actually chosen, plus the list index it came
// from (or -1) so the caller can apply origin.Mutate.
type Outcome struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Chosen     origin.Candidate
	Attempts   int
}

// Dispatcher drives outbound requests per §4.4.
type Dispatcher struct {
	Client  *http.Client
	Limiter *ratelimit.Limiter
}

// New creates a Dispatcher with connection pooling tuned the way a
// reverse proxy's outbound client should be: bounded idle connections per
// host, HTTP/2 attempted opportunistically, and a client-level timeout the
// caller supplies via ctx rather than the client itself so slow upstreams
// can be cancelled per-request.
func New(limiter *ratelimit.Limiter) *Dispatcher {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	return &Dispatcher{
		Client:  &http.Client{Transport: transport},
		Limiter: limiter,
	}
}

// attempt is one candidate's fully-read outcome.
type attempt struct {
	candidate origin.Candidate
	resp      *http.Response
	body      []byte
}

// Dispatch drives req across resolution.Candidates in order until one
// succeeds (status < 400) or the list is exhausted, per §4.4.
func (d *Dispatcher) Dispatch(ctx context.Context, req *http.Request, resolution origin.Resolution, fp ratelimit.Fingerprint) (*Outcome, error) {
	if len(resolution.Candidates) == 0 {
		return nil, &NoCandidatesError{}
	}

	var bodySrc io.Reader
	if !noBodyMethods[req.Method] {
		bodySrc = req.Body
	}
	tee, err := newBodyTee(bodySrc)
	if err != nil {
		return nil, err
	}

	var provisional, final *attempt
	var lastErr error
	attempts := 0

	for i, cand := range resolution.Candidates {
		if !d.Limiter.Allow(fp, timeNow()) {
			return nil, &RateLimitedError{}
		}

		upstreamURL, ok := buildUpstreamURL(cand.Origin, resolution.UpstreamPath)
		if !ok {
			return nil, &InvalidUpstreamURLError{URL: string(cand.Origin) + resolution.UpstreamPath}
		}

		attempts++

		outReq, err := http.NewRequestWithContext(ctx, req.Method, upstreamURL, tee.branch(i))
		if err != nil {
			return nil, err
		}
		outReq.Header = headers.ToUpstream(req.Header, cand.Origin)

		resp, err := d.Client.Do(outReq)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		at := &attempt{candidate: cand, resp: resp, body: body}
		if provisional == nil {
			provisional = at
		}
		if resp.StatusCode < 400 {
			final = at
			break
		}
	}

	chosen := final
	if chosen == nil {
		chosen = provisional
	}
	if chosen == nil {
		return nil, &UpstreamTransportError{Cause: lastErr}
	}

	return &Outcome{
		StatusCode: chosen.resp.StatusCode,
		Header:     chosen.resp.Header,
		Body:       chosen.body,
		Chosen:     chosen.candidate,
		Attempts:   attempts,
	}, nil
}

// RelayBody implements the body-relay rule of §4.4: textual content is
// rewritten in place; everything else passes through untouched (the
// caller is responsible for copying Content-Length verbatim, since
// Outcome.Body already holds the exact upstream bytes either way).
func RelayBody(contentType string, body []byte, proxyHost string) []byte {
	if !rewrite.IsTextual(contentType) {
		return body
	}
	return []byte(rewrite.Rewrite(string(body), proxyHost))
}

// buildUpstreamURL composes candidate and upstreamPath and validates the
// result against the URL grammar of §4.2 (well-formed scheme and a
// non-empty host).
func buildUpstreamURL(o origin.Origin, upstreamPath string) (string, bool) {
	raw := string(o) + upstreamPath
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return raw, true
}

// timeNow is a seam so tests can observe real elapsed time without the
// dispatcher depending on an injected clock for the common case.
func timeNow() time.Time { return time.Now() }
