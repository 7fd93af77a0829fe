package cookie

import "testing"

func TestParseBasic(t *testing.T) {
	c, err := Parse("session=abc123; Domain=example.com; Path=/; Secure; HttpOnly; SameSite=Lax")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if c.Name != "session" || c.Value != "abc123" {
		t.Errorf("Name/Value = %q/%q, want session/abc123", c.Name, c.Value)
	}
	if c.Options["domain"] != "example.com" {
		t.Errorf("domain = %v, want example.com", c.Options["domain"])
	}
	if c.Options["secure"] != true {
		t.Error("secure flag should be true")
	}
	if c.Options["httpOnly"] != true {
		t.Error("httpOnly flag should be true")
	}
	if c.Options["sameSite"] != "Lax" {
		t.Errorf("sameSite = %v, want Lax", c.Options["sameSite"])
	}
}

func TestParseMaxAge(t *testing.T) {
	c, err := Parse("a=b; Max-Age=3600")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if c.Options["maxAge"] != 3600 {
		t.Errorf("maxAge = %v, want 3600", c.Options["maxAge"])
	}
}

func TestParseRejectsMalformedMaxAge(t *testing.T) {
	if _, err := Parse("a=b; Max-Age=not-a-number"); err == nil {
		t.Error("Parse() should reject a non-numeric Max-Age")
	}
}

func TestParseRejectsMissingEquals(t *testing.T) {
	if _, err := Parse("not-a-cookie"); err == nil {
		t.Error("Parse() should reject a header with no name=value pair")
	}
}

func TestParsePreservesUnknownAttribute(t *testing.T) {
	c, err := Parse("a=b; Priority=High")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if c.Options["priority"] != "High" {
		t.Errorf("priority = %v, want High", c.Options["priority"])
	}
}

func TestRoundTrip(t *testing.T) {
	original := "session=abc123; Domain=example.com; Path=/; Max-Age=3600; Secure; HttpOnly; SameSite=Lax"
	c, err := Parse(original)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	reparsed, err := Parse(c.String())
	if err != nil {
		t.Fatalf("Parse(c.String()) error = %v", err)
	}

	if reparsed.Name != c.Name || reparsed.Value != c.Value {
		t.Errorf("round trip changed name/value: got %q/%q, want %q/%q", reparsed.Name, reparsed.Value, c.Name, c.Value)
	}
	for k, v := range c.Options {
		if reparsed.Options[k] != v {
			t.Errorf("round trip changed option %q: got %v, want %v", k, reparsed.Options[k], v)
		}
	}
}
