// Package headers implements the bidirectional header translation between
// a client and an upstream origin: stripping hop-by-hop and incompatible
// fields, scoping the proxyTargets state cookie, relaxing
// Content-Security-Policy, and rewriting cookie domains to the proxy
// host.
package headers
