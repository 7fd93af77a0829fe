package logging

import (
	"fmt"
	"regexp"
	"strings"
)

// Redactor redacts sensitive values from log fields: cookie contents,
// bearer tokens, and client IPs, the values this proxy passes through
// every request without ever needing to read.
type Redactor struct {
	patterns map[string]*redactPattern
}

type redactPattern struct {
	regex       *regexp.Regexp
	replacement string
}

// Pattern names.
const (
	PatternBearerToken = "bearer_token"
	PatternCookie      = "cookie"
	PatternIPv4        = "ipv4"
	PatternIPv6        = "ipv6"
)

// NewRedactor creates a Redactor with the default pattern set.
func NewRedactor() *Redactor {
	r := &Redactor{patterns: make(map[string]*redactPattern)}

	defaults := map[string]struct {
		regex       string
		replacement string
	}{
		PatternBearerToken: {
			regex:       `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`,
			replacement: "Bearer ***",
		},
		PatternCookie: {
			regex:       `(proxyTargets|_+proxyTargets)=[^;]+`,
			replacement: "$1=***",
		},
		PatternIPv4: {
			regex:       `\b(?:\d{1,3}\.){3}\d{1,3}\b`,
			replacement: "*.*.*.*",
		},
		PatternIPv6: {
			regex:       `\b(?:[0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}\b`,
			replacement: "****:****:****:****:****:****:****:****",
		},
	}

	for name, p := range defaults {
		r.patterns[name] = &redactPattern{regex: regexp.MustCompile(p.regex), replacement: p.replacement}
	}

	return r
}

// RedactString redacts sensitive substrings from value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	redacted := value
	for _, pattern := range r.patterns {
		redacted = pattern.regex.ReplaceAllString(redacted, pattern.replacement)
	}
	return redacted
}

// RedactArgs redacts sensitive log arguments. Args are key1, value1,
// key2, value2, ... pairs, the shape slog.Logger.Log expects.
func (r *Redactor) RedactArgs(args ...any) []any {
	if len(args) == 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 1; i < len(redacted); i += 2 {
		key, ok := redacted[i-1].(string)
		if ok && r.isSensitiveKey(key) {
			redacted[i] = r.redactValue(redacted[i])
			continue
		}
		if str, ok := redacted[i].(string); ok {
			redacted[i] = r.RedactString(str)
		}
	}

	return redacted
}

func (r *Redactor) isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitive := range []string{"cookie", "authorization", "secret", "token"} {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

func (r *Redactor) redactValue(value any) any {
	switch v := value.(type) {
	case string:
		if len(v) <= 4 {
			return "***"
		}
		return v[:4] + "***"
	case fmt.Stringer:
		return "***"
	default:
		return "***"
	}
}
