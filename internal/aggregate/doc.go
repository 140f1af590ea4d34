// Package aggregate turns raw backend payloads into validated session state
// fragments.
//
// The backend returns an object with two optional arrays, "data" (scrape
// results) and "analysis" (technique frequencies). The aggregator keeps both
// in the order the backend sent them and never re-sorts.
//
// Validation runs in one of two modes:
//   - Lenient (default): malformed records are dropped and counted, so a
//     partially valid payload still yields a usable, if shorter, state.
//   - Strict: the first malformed record fails the whole aggregation.
//
// Absent or null arrays become empty slices; nil never reaches session state.
package aggregate
