package headers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/relayhq/originproxy/pkg/cookie"
	"github.com/relayhq/originproxy/pkg/origin"
)

// hopByHopRequest are headers dropped on the way to upstream because the
// HTTP client recomputes them for the outbound request.
var hopByHopRequest = map[string]bool{
	"content-length":    true,
	"content-encoding":  true,
	"transfer-encoding": true,
}

// hopByHopResponse are headers dropped on the way back to the client.
var hopByHopResponse = map[string]bool{
	"content-length":    true,
	"content-encoding":  true,
	"transfer-encoding": true,
	"connection":        true,
}

// ToUpstream translates a client request's headers into the headers sent
// to target, per the client -> upstream table of §4.3.
func ToUpstream(h http.Header, target origin.Origin) http.Header {
	out := make(http.Header, len(h))

	for name, values := range h {
		lower := strings.ToLower(name)

		switch {
		case lower == "host" || lower == "origin":
			out.Set(name, target.Authority())
		case hopByHopRequest[lower]:
			// dropped; recomputed by the HTTP client.
		case lower == "cookie":
			for _, v := range values {
				if rewritten := translateRequestCookieHeader(v); rewritten != "" {
					out.Add(name, rewritten)
				}
			}
		default:
			for _, v := range values {
				out.Add(name, v)
			}
		}
	}

	return out
}

// translateRequestCookieHeader drops the proxyTargets cookie and strips one
// leading underscore from any cookie named "_+proxyTargets", forwarding
// the rest unchanged.
func translateRequestCookieHeader(header string) string {
	pairs := strings.Split(header, ";")
	kept := make([]string, 0, len(pairs))

	for _, pair := range pairs {
		trimmed := strings.TrimSpace(pair)
		if trimmed == "" {
			continue
		}
		eq := strings.IndexByte(trimmed, '=')
		if eq < 0 {
			kept = append(kept, trimmed)
			continue
		}
		name := trimmed[:eq]
		value := trimmed[eq+1:]

		if name == origin.CookieName {
			continue
		}
		if isUnderscoredProxyTargets(name) {
			name = name[1:]
		}
		kept = append(kept, name+"="+value)
	}

	return strings.Join(kept, "; ")
}

// isUnderscoredProxyTargets reports whether name is one-or-more leading
// underscores followed by "proxyTargets".
func isUnderscoredProxyTargets(name string) bool {
	trimmed := strings.TrimLeft(name, "_")
	return trimmed == origin.CookieName && len(trimmed) < len(name)
}

// FromUpstream translates an upstream response's headers into the headers
// sent to the client, per the upstream -> client table of §4.3.
// cspTemplate is the CSP policy template; proxyHost is substituted into its
// %s verb to form the absolute report-uri.
func FromUpstream(h http.Header, proxyHost, cspTemplate string) http.Header {
	out := make(http.Header, len(h)+1)

	for name, values := range h {
		lower := strings.ToLower(name)

		switch {
		case lower == "set-cookie":
			for _, v := range values {
				if rewritten := translateSetCookie(v, proxyHost); rewritten != "" {
					out.Add("Set-Cookie", rewritten)
				}
			}
		case lower == "content-security-policy" || lower == "content-security-policy-report-only":
			// handled once, below, regardless of how many such headers upstream sent.
		case hopByHopResponse[lower]:
			// dropped.
		default:
			for _, v := range values {
				out.Add(name, v)
			}
		}
	}

	if _, hadCSP := h["Content-Security-Policy"]; hadCSP || hasHeaderFold(h, "content-security-policy-report-only") {
		out.Set("Content-Security-Policy", fmt.Sprintf(cspTemplate, proxyHost))
	}

	out.Set("Access-Control-Allow-Origin", "*")
	return out
}

func hasHeaderFold(h http.Header, name string) bool {
	_, ok := h[http.CanonicalHeaderKey(name)]
	return ok
}

// translateSetCookie parses a single Set-Cookie header value, rewrites its
// Domain attribute to proxyHost, and, if the cookie's name matches
// "_*proxyTargets", prepends one underscore. A parse error drops the
// header (per CookieParseError in §7) and returns "".
func translateSetCookie(header, proxyHost string) string {
	c, err := cookie.Parse(header)
	if err != nil {
		return ""
	}

	if _, hasDomain := c.Options["domain"]; hasDomain {
		c.Options["domain"] = proxyHost
	}

	if matchesProxyTargetsName(c.Name) {
		c.Name = "_" + c.Name
	}

	return c.String()
}

// matchesProxyTargetsName reports whether name is "proxyTargets" or
// "_*proxyTargets".
func matchesProxyTargetsName(name string) bool {
	return strings.TrimLeft(name, "_") == origin.CookieName
}
