package session

import "errors"

var (
	// ErrBusy is returned when a scrape is submitted while another is in
	// flight. The call is a no-op.
	ErrBusy = errors.New("a scrape is already in progress")

	// ErrUnknownQuery is returned when the submitted query is not a
	// catalog entry. The call is a no-op.
	ErrUnknownQuery = errors.New("query is not in the catalog")
)

// GenericErrorMessage is the only failure text users see. Backend error
// bodies and status codes are logged, never echoed.
const GenericErrorMessage = "Backend error or rate limited"
