package history

import "errors"

var (
	// ErrNotFound is returned when no snapshot matches the request.
	ErrNotFound = errors.New("snapshot not found")

	// ErrDatabaseNotFound is returned by Open when the database file does
	// not exist and creation was not requested.
	ErrDatabaseNotFound = errors.New("history database not found")

	// ErrDigestMismatch is returned by Snapshot.Verify when the stored
	// payload no longer hashes to its recorded digest.
	ErrDigestMismatch = errors.New("snapshot digest mismatch")
)
