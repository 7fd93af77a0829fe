// Package dispatch drives an outbound HTTP request across a candidate
// origin list until one succeeds or the list is exhausted, teeing the
// request body so a later candidate can retry after an earlier one fails,
// and relaying the upstream response back to the client. Every upstream
// response body is read fully into memory before it is relayed: textual
// content is rewritten, other content is passed on byte-for-byte. Response
// bodies are not streamed.
package dispatch
