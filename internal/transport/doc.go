// Package transport builds the HTTP client used to reach the scrape backend.
//
// The backend normally runs on the local machine, so by default requests go
// out directly. When a SOCKS5 proxy is configured (for example an SSH tunnel
// or a Tor SOCKS port in front of a remote backend), every connection is
// dialed through it.
//
// Static headers from the configuration file are injected into every request
// by a wrapping RoundTripper, so redirects carry them too.
package transport
