package config

import "errors"

// Configuration validation errors returned by Config.Validate and File.ApplyTo.
var (
	// ErrInvalidBackendURL is returned when the backend URL is not an
	// absolute http or https URL.
	ErrInvalidBackendURL = errors.New("invalid backend URL: must be an absolute http(s) URL")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidProxyAddress is returned when the proxy is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: must be host:port")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidHeader is returned when a configured header name is empty
	// or contains characters not allowed in a header name.
	ErrInvalidHeader = errors.New("invalid header name")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
