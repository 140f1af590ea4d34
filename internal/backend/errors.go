package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus is wrapped by StatusError for any non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrRequestFailed wraps transport level failures (connection refused,
	// timeouts, TLS errors).
	ErrRequestFailed = errors.New("request failed")

	// ErrNoQueries is returned when Scrape is called without queries.
	ErrNoQueries = errors.New("no queries provided")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d", e.Method, e.Path, e.StatusCode)
}

// Unwrap lets errors.Is match ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
