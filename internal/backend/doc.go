// Package backend implements the HTTP contract of the scrape/analysis service.
//
// The client only knows three endpoints:
//   - GET  /        health check
//   - GET  /results previously computed results
//   - POST /scrape  run a scrape for {"queries": [...]}
//
// Response bodies are returned raw so the aggregate package can validate
// them record by record. Any non-2xx status becomes a *StatusError; the
// body is kept for debug logging only and must never be shown to users.
package backend
