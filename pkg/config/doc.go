// Package config provides the configuration system for the origin proxy.
//
// Configuration is loaded from a YAML file with built-in defaults, so the
// proxy runs with zero configuration as required by its "no configuration"
// scope. A loaded Config can be watched for changes on disk (see Watcher);
// each reload publishes a new snapshot to a Store. Values the pipeline reads
// from the Store per request (the proxy host and the cookie Secure flag)
// follow reloads. The rate limiter's window and limit, the fallback origin
// and the listen address are read once when the server is built, so a
// reload does not change them.
package config
