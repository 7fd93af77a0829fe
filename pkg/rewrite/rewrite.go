package rewrite

import "strings"

// textualContentTypes are substring-matched against a Content-Type header
// value to decide whether a response body is rewritten at all.
var textualContentTypes = []string{"html", "css", "scss", "svg", "javascript", "json", "text"}

// IsTextual reports whether contentType names one of the payload kinds the
// rewriter operates on. Non-textual bodies pass through byte-for-byte.
func IsTextual(contentType string) bool {
	lower := strings.ToLower(contentType)
	for _, want := range textualContentTypes {
		if strings.Contains(lower, want) {
			return true
		}
	}
	return false
}

// Rewrite replaces every URL Scan finds in text with a proxy-local
// equivalent that routes back through proxyHost to the same authority.
//
// Rewrite is idempotent: a URL already in proxy-local form (authority ==
// proxyHost) is recognised by Scan like any other absolute URL, but it is
// copied through unchanged instead of being rewritten.
func Rewrite(text, proxyHost string) string {
	matches := Scan(text)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + len(matches)*(len(proxyHost)+8))

	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m.Start])
		if strings.EqualFold(m.Authority, proxyHost) {
			// already proxy-local; rewriting again would double-wrap it.
			b.WriteString(text[m.Start:m.End])
		} else {
			writeRewritten(&b, m, proxyHost)
		}
		last = m.End
	}
	b.WriteString(text[last:])
	return b.String()
}

func writeRewritten(b *strings.Builder, m Match, proxyHost string) {
	protoWire := m.Protocol
	if protoWire == "" {
		protoWire = "http"
	}

	if m.Protocol != "" {
		b.WriteString("http:")
	}
	b.WriteString(m.Delim)
	b.WriteString(m.Delim)
	b.WriteString(proxyHost)
	b.WriteString(m.Delim)
	b.WriteString(protoWire)
	b.WriteByte('.')
	b.WriteString(m.Rest)
}
