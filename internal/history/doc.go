// Package history keeps a local record of successful scrape snapshots.
//
// Snapshots live in a single SQLite file (modernc.org/sqlite, no CGO) under
// the XDG data directory. Each row holds the query that produced it, the
// data/analysis payload as JSON and a SHA3-256 digest of that payload.
// A snapshot identical to the most recent one is not stored again, so
// repeating the same scrape does not grow the database.
//
// Store implements session.SnapshotSink.
package history
