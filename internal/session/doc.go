// Package session owns the client session state and the two flows that are
// allowed to change it.
//
//   - Bootstrap (LoadExisting) runs once at session start and loads results
//     the backend computed earlier. Failures are logged, never surfaced.
//   - The scrape orchestrator (Submit, SubmitAsync) sends one query to the
//     backend and tracks the request through idle → loading → idle/error.
//
// At most one scrape is in flight per session. The Loading check and the
// transition into Loading happen under the same lock, so concurrent callers
// cannot both issue a request; the loser gets ErrBusy and nothing is sent.
//
// Readers never see the owned state directly. Snapshot returns a deep copy
// and Subscribe delivers a copy after every transition, which lets renderers
// stay pure functions of model.SessionState.
package session
