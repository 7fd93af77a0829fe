package cookie

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Cookie is the parsed form of one Set-Cookie header value.
type Cookie struct {
	Name    string
	Value   string
	Options map[string]any
}

// canonicalAttr maps a lower-cased attribute token to its canonical stored
// key. domain, path, expires, and secure stay lower-case; the other three
// keep their camel spelling per the translator contract.
var canonicalAttr = map[string]string{
	"domain":   "domain",
	"path":     "path",
	"expires":  "expires",
	"max-age":  "maxAge",
	"maxage":   "maxAge",
	"secure":   "secure",
	"httponly": "httpOnly",
	"samesite": "sameSite",
}

// wireAttr is the inverse of canonicalAttr, used when serializing.
var wireAttr = map[string]string{
	"domain":   "Domain",
	"path":     "Path",
	"expires":  "Expires",
	"maxAge":   "Max-Age",
	"secure":   "Secure",
	"httpOnly": "HttpOnly",
	"sameSite": "SameSite",
}

// Parse parses a single Set-Cookie header value per RFC 6265 §5.2. The
// first ";"-delimited segment is the cookie's own name=value pair;
// subsequent segments are attributes. Attribute values are trimmed of
// surrounding whitespace; attributes without a value are stored as the
// flag true. An attribute name not in canonicalAttr is preserved verbatim,
// lower-cased, as a string value.
func Parse(header string) (*Cookie, error) {
	parts := strings.Split(header, ";")
	if len(parts) == 0 {
		return nil, fmt.Errorf("cookie: empty header")
	}

	name, value, ok := splitNameValue(parts[0])
	if !ok {
		return nil, fmt.Errorf("cookie: malformed name=value pair %q", parts[0])
	}

	c := &Cookie{Name: name, Value: value, Options: map[string]any{}}

	for _, raw := range parts[1:] {
		attr := strings.TrimSpace(raw)
		if attr == "" {
			continue
		}

		attrName, attrValue, hasValue := splitNameValue(attr)
		key := strings.ToLower(attrName)
		canonical, known := canonicalAttr[key]
		if !known {
			canonical = key
		}

		if !hasValue {
			c.Options[canonical] = true
			continue
		}

		switch canonical {
		case "maxAge":
			n, err := strconv.Atoi(attrValue)
			if err != nil {
				return nil, fmt.Errorf("cookie: invalid Max-Age %q: %w", attrValue, err)
			}
			c.Options[canonical] = n
		case "expires":
			t, err := http.ParseTime(attrValue)
			if err != nil {
				return nil, fmt.Errorf("cookie: invalid Expires %q: %w", attrValue, err)
			}
			c.Options[canonical] = t
		default:
			c.Options[canonical] = attrValue
		}
	}

	return c, nil
}

// splitNameValue splits "name=value" on the first "=". ok is false if no
// "=" is present.
func splitNameValue(s string) (name, value string, ok bool) {
	i := strings.IndexByte(s, '=')
	if i < 0 {
		return strings.TrimSpace(s), "", false
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
}

// String serializes c back into a Set-Cookie header value. Known attributes
// are written in a fixed order, followed by unknown attributes in map
// iteration order, so Parse(c.String()) round-trips to a logically equal
// Cookie.
func (c *Cookie) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(c.Value)

	order := []string{"domain", "path", "expires", "maxAge", "secure", "httpOnly", "sameSite"}
	for _, key := range order {
		v, present := c.Options[key]
		if !present {
			continue
		}
		writeAttr(&b, wireAttr[key], v)
	}

	for key, v := range c.Options {
		if _, known := wireAttr[key]; known {
			continue
		}
		writeAttr(&b, key, v)
	}

	return b.String()
}

func writeAttr(b *strings.Builder, wireName string, v any) {
	switch val := v.(type) {
	case bool:
		if val {
			b.WriteString("; ")
			b.WriteString(wireName)
		}
	case int:
		fmt.Fprintf(b, "; %s=%d", wireName, val)
	case time.Time:
		fmt.Fprintf(b, "; %s=%s", wireName, val.UTC().Format(http.TimeFormat))
	case string:
		fmt.Fprintf(b, "; %s=%s", wireName, val)
	}
}
