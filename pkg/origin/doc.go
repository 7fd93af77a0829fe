// Package origin resolves, per incoming request, which upstream origin(s)
// to try and in what order, and maintains the client's remembered-origin
// list across requests.
//
// An Origin is a scheme+authority pair with no normalisation: equality is
// string-exact. The client's OriginList is carried as a JSON array in the
// proxyTargets cookie, URL-escaped on the wire; List treats it as a small explicit state machine
// rather than an untyped blob, with its own encode/decode and mutation
// rules.
package origin
