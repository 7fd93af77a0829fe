package rewrite

import (
	"net"
	"regexp"
	"strings"
)

// ipvFuturePattern matches the IPvFuture production of RFC 3986 §3.2.2:
// "v" 1*HEXDIG "." 1*( unreserved / sub-delims / ":" ).
var ipvFuturePattern = regexp.MustCompile(`(?i)^v[0-9a-f]+\.[a-z0-9\-._~!$&'()*+,;=:]+$`)

// validBracketedHost reports whether lit, the content between a matched
// pair of square brackets, is a valid IPv6 literal or IPvFuture address.
// Bracket-wrapped plain IPv4 is not part of the grammar and is rejected.
func validBracketedHost(lit string) bool {
	if lit == "" {
		return false
	}
	if lit[0] == 'v' || lit[0] == 'V' {
		return ipvFuturePattern.MatchString(lit)
	}
	ip := net.ParseIP(lit)
	return ip != nil && strings.Contains(lit, ":")
}

// hostChar reports whether c may appear in an unbracketed host (regname or
// IPv4 dotted-quad). Percent-encoding, sub-delims and userinfo characters
// are intentionally excluded: they terminate host scanning and are instead
// folded into the opaque remainder that is copied through verbatim.
func hostChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}

// isTerminator reports whether c cannot appear inside a bare URL embedded
// in HTML, CSS, JavaScript or JSON text, and therefore ends a match.
func isTerminator(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '"', '\'', '`', '<', '>', '(', ')', ',', ']', '}', '|':
		return true
	}
	return false
}
