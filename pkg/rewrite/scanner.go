package rewrite

import (
	"regexp"
	"strings"
)

// Match describes one recognised URL occurrence in a text payload.
type Match struct {
	// Start and End bound the whole matched URL, including its scheme (if
	// any) and delimiters.
	Start, End int

	// Protocol is "http", "https", or "" for a protocol-relative match.
	Protocol string

	// Delim is the single delimiter token found at the match's entry
	// point, repeated twice there to form the authority-introducing pair:
	// "/", the JSON-escaped "\/", or the unicode escape of escapedSlash (its hex
	// digits lower-cased by canonicalDelim). It is reused for every
	// delimiter the rewriter inserts.
	Delim string

	// Rest is everything after the entry delimiters: optional userinfo,
	// host, optional port, and path/query/fragment, copied verbatim.
	Rest string

	// Authority is the host, plus port if present, excluding any
	// userinfo. Used to detect URLs that already target the proxy, so
	// Rewrite stays idempotent.
	Authority string
}

// escapedSlash is the six-character JSON/unicode escape for "/".
const escapedSlash = "\\u002f"

// delimTokenForms lists the recognised single-slash delimiter tokens,
// longest first so the escaped forms are not shadowed by a literal "/"
// prefix match.
var delimTokenForms = []string{`\/`, "/"}

// matchDelimToken attempts to match one recognised delimiter token at
// s[i:]: a literal "/", a JSON-escaped "\/", or a unicode-escaped "/"
// (case-insensitive on the hex nibble). It returns the raw matched text
// and its byte length.
func matchDelimToken(s string, i int) (raw string, n int, ok bool) {
	if i+6 <= len(s) && strings.EqualFold(s[i:i+6], escapedSlash) {
		return s[i : i+6], 6, true
	}
	for _, form := range delimTokenForms {
		if strings.HasPrefix(s[i:], form) {
			return form, len(form), true
		}
	}
	return "", 0, false
}

// matchDelimPair matches two consecutive occurrences of the same
// delimiter token at s[i:], per the grammar's "delimiter{2} (captured;
// both occurrences must match)".
func matchDelimPair(s string, i int) (token string, n int, ok bool) {
	first, n1, ok := matchDelimToken(s, i)
	if !ok {
		return "", 0, false
	}
	second, n2, ok := matchDelimToken(s, i+n1)
	if !ok || !strings.EqualFold(first, second) {
		return "", 0, false
	}
	return first, n1 + n2, true
}

var xmlnsLookbehind = regexp.MustCompile(`(?i)xmlns(:[a-z0-9_-]+)?\s*=\s*["']$`)

const xmlnsLookbehindWindow = 64

func precededByXMLNS(text string, start int) bool {
	from := start - xmlnsLookbehindWindow
	if from < 0 {
		from = 0
	}
	return xmlnsLookbehind.MatchString(text[from:start])
}

func precededByBackslash(text string, start int, delim string) bool {
	if strings.HasPrefix(delim, `\`) {
		// the backslash belongs to the escaped delimiter token itself.
		return false
	}
	return start > 0 && text[start-1] == '\\'
}

// Scan finds every URL occurrence in text that satisfies the grammar of
// §4.2: an optional scheme, a matching delimiter pair, an authority (host
// plus optional userinfo and port), and an opaque path/query/fragment tail.
func Scan(text string) []Match {
	var matches []Match
	i := 0
	for i < len(text) {
		start, protocol, delim, contentStart, ok := tryMatchEntry(text, i)
		if !ok {
			i++
			continue
		}
		if precededByBackslash(text, start, delim) || precededByXMLNS(text, start) {
			// Skip the whole rejected URL so its delimiter pair is not
			// matched again as a protocol-relative URL.
			i = contentStart
			if _, end, valid := scanAuthorityAndTail(text, contentStart); valid {
				i = end
			}
			continue
		}

		authority, end, valid := scanAuthorityAndTail(text, contentStart)
		if !valid {
			i = start + 1
			continue
		}

		matches = append(matches, Match{
			Start:     start,
			End:       end,
			Protocol:  protocol,
			Delim:     canonicalDelim(delim),
			Rest:      text[contentStart:end],
			Authority: authority,
		})
		i = end
	}
	return matches
}

// canonicalDelim normalises a unicode-escaped delimiter's hex-digit casing
// so repeated rewrites of the same input are byte-stable.
func canonicalDelim(delim string) string {
	if strings.HasPrefix(delim, `\u`) || strings.HasPrefix(delim, `\U`) {
		return escapedSlash
	}
	return delim
}

// tryMatchEntry attempts to match a scheme-prefixed or protocol-relative
// delimiter pair anchored exactly at i; callers advance i themselves on
// failure.
func tryMatchEntry(text string, i int) (start int, protocol, delim string, contentStart int, ok bool) {
	lower := strings.ToLower(text[i:])

	for _, scheme := range [...]string{"https", "http"} {
		if strings.HasPrefix(lower, scheme+":") {
			after := i + len(scheme) + 1
			if tok, n, matched := matchDelimPair(text, after); matched {
				return i, scheme, tok, after + n, true
			}
		}
	}

	if tok, n, matched := matchDelimPair(text, i); matched {
		return i, "", tok, i + n, true
	}

	return 0, "", "", 0, false
}

// scanAuthorityAndTail parses the authority (userinfo, host, port) from
// pos and validates the host against the grammar, then consumes the
// remaining path/query/fragment up to a terminator. It returns the
// host[:port] substring (excluding userinfo), the byte offset of the end
// of the whole match, and whether the authority was grammatically valid.
func scanAuthorityAndTail(text string, pos int) (authority string, end int, ok bool) {
	if pos >= len(text) {
		return "", pos, false
	}

	p := pos
	authorityStart := pos
	if text[p] == '[' {
		closeIdx := strings.IndexByte(text[p:], ']')
		if closeIdx == -1 {
			return "", pos, false
		}
		lit := text[p+1 : p+closeIdx]
		if !validBracketedHost(lit) {
			return "", pos, false
		}
		p += closeIdx + 1
	} else {
		hostStart := p
		for p < len(text) {
			c := text[p]
			if c == '@' {
				p++
				hostStart = p
				continue
			}
			if c == ':' || isTerminator(c) {
				break
			}
			if _, _, isDelim := matchDelimToken(text, p); isDelim {
				break
			}
			if !hostChar(c) {
				break
			}
			p++
		}
		if p == hostStart {
			return "", pos, false
		}
		authorityStart = hostStart
	}

	if p < len(text) && text[p] == ':' {
		j := p + 1
		for j < len(text) && text[j] >= '0' && text[j] <= '9' {
			j++
		}
		if j > p+1 {
			p = j
		}
	}
	authority = text[authorityStart:p]

	for p < len(text) && !isTerminator(text[p]) {
		p++
	}

	return authority, p, true
}
