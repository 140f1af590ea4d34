// Package model defines the core data structures used throughout serpclient.
//
// This package contains the following main types:
//   - ScrapeResult: One document the backend discovered for a query
//   - AnalysisEntry: One technique name and its occurrence count
//   - SessionState: The render-ready state of a client session
//   - Payload: The wire shape exchanged with the backend
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The aggregate, session, report and history packages all need
// these types, so centralizing them prevents import cycles.
//
// The models serialize to the same JSON shape the backend produces, so a
// snapshot can be written back out without field loss.
package model
