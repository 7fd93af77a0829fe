// Package rewrite implements the grammar-based URL matcher and substituter
// that lets a rewritten textual response keep navigating through the proxy.
//
// Rewrite scans a text payload for absolute and protocol-relative URLs
// (including IPv6-literal and IPvFuture authorities, and the literal,
// JSON-escaped, and unicode-escaped forms of the path delimiter) and
// replaces each one with a proxy-local equivalent that encodes the
// original scheme and authority in its first path segment.
package rewrite
