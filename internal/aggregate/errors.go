package aggregate

import "errors"

var (
	// ErrMalformedPayload is returned when the payload is not a JSON object,
	// or when "data" or "analysis" is present but not an array.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrMalformedRecord is returned in strict mode when a single result or
	// analysis record is missing a required field.
	ErrMalformedRecord = errors.New("malformed record")
)
