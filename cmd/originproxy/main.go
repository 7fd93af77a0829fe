// Command originproxy is a URL-rewriting HTTP reverse proxy: it resolves an
// upstream origin per request (from the request path, a cookie-carried
// candidate list, or a configured fallback), rewrites absolute URLs in the
// response body back through the proxy, and falls back through a list of
// candidate origins on upstream failure.
//
// Usage:
//
//	# Start the server with default configuration
//	originproxy run
//
//	# Start with a custom configuration file
//	originproxy run --config /path/to/config.yaml
//
//	# Show version information
//	originproxy version
package main

func main() {
	Execute()
}
