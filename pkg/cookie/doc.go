// Package cookie implements a parser and serializer for Set-Cookie header
// values, per RFC 6265 §5.2.
//
// Parse accepts a single Set-Cookie value and returns the cookie's name,
// value, and attributes. Attribute names are lower-cased except for the
// canonical camel-cased forms sameSite, httpOnly, and maxAge. Malformed
// input returns an error; callers are expected to drop that header and
// continue rather than fail the whole response.
package cookie
