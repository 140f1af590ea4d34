// Package log builds the application logger: a slog handler that masks
// credentials before they reach the output.
//
// serpclient talks to a scraping backend that is usually fronted by API
// keys, bearer tokens or an authenticating SOCKS5 proxy. Those values show
// up in configuration, request headers and proxy URLs, and all of them can
// end up in debug logs. SecureHandler removes them:
//   - attributes whose key names a credential (authorization, api_key, ...)
//   - string values that look like tokens (JWT, bearer, long hex/base62 keys)
//   - passwords embedded in URLs and api_key style query parameters
//   - sensitive entries of http.Header values
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, log.Options{Verbose: true})
//	slog.SetDefault(logger)
//
//	logger.Debug("request", "url", "http://127.0.0.1:5000/scrape?api_key=abc")
//	// url=http://127.0.0.1:5000/scrape?api_key=***REDACTED***
package log
