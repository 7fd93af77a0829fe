package origin

import (
	"fmt"
	"strings"
)

// Origin is a scheme+authority pair, e.g. "https://example.com:8443".
// Equality is string-exact; no normalisation (case, default ports, and
// trailing slashes are all significant).
type Origin string

// Authority returns o with its scheme prefix removed.
func (o Origin) Authority() string {
	if i := strings.Index(string(o), "://"); i >= 0 {
		return string(o)[i+3:]
	}
	return string(o)
}

// Scheme returns o's scheme ("http" or "https"), or "" if o has none.
func (o Origin) Scheme() string {
	if i := strings.Index(string(o), "://"); i >= 0 {
		return string(o)[:i]
	}
	return ""
}

// encodedPrefixes maps the wire-level path prefix to the scheme it encodes.
// The "." after the scheme is the wire-level escape for "://".
var encodedPrefixes = [...]string{"https.", "http."}

// SplitEncodedPath splits a request path of the form "/http.<host>/<rest>"
// or "/https.<host>/<rest>" into the decoded Origin and the remaining
// upstream path (joined by "/", with a leading "/"). ok is false if path
// does not begin with a recognised encoded-origin segment.
func SplitEncodedPath(path string) (o Origin, upstreamPath string, ok bool) {
	trimmed := strings.TrimPrefix(path, "/")

	segEnd := strings.IndexByte(trimmed, '/')
	var segment, rest string
	if segEnd == -1 {
		segment, rest = trimmed, ""
	} else {
		segment, rest = trimmed[:segEnd], trimmed[segEnd+1:]
	}

	for _, prefix := range encodedPrefixes {
		if !strings.HasPrefix(segment, prefix) {
			continue
		}
		scheme := strings.TrimSuffix(prefix, ".")
		host := segment[len(prefix):]
		return Origin(fmt.Sprintf("%s://%s", scheme, host)), "/" + rest, true
	}

	return "", "", false
}

// EncodePathPrefix renders o as the wire-level "http.<host>" or
// "https.<host>" path segment.
func (o Origin) EncodePathPrefix() string {
	return fmt.Sprintf("%s.%s", o.Scheme(), o.Authority())
}
