package model

// Status is the lifecycle state of a session.
type Status int

const (
	// StatusIdle means no request is in flight.
	StatusIdle Status = iota

	// StatusLoading means a scrape request is in flight.
	// No further scrape may be issued until it resolves.
	StatusLoading

	// StatusError means the last scrape request failed.
	// ErrorMessage is set and the previous results are retained.
	StatusError
)

// String returns the lower-case name of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so Status serializes
// as its name in JSON reports.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SessionState is the complete render-ready state of a session.
//
// Results and Analysis are always replaced as whole units; they are never
// merged element-wise with a previous snapshot.
type SessionState struct {
	// Results preserves the backend order (relevance or recency).
	Results []ScrapeResult `json:"data"`

	// Analysis preserves the backend order (display order).
	Analysis []AnalysisEntry `json:"analysis"`

	// Status is the current lifecycle state.
	Status Status `json:"status"`

	// ErrorMessage is non-empty only when Status is StatusError.
	ErrorMessage string `json:"error,omitempty"`
}

// NewSessionState returns the empty initial state.
// Slices are non-nil so renderers and JSON output never see null.
func NewSessionState() SessionState {
	return SessionState{
		Results:  []ScrapeResult{},
		Analysis: []AnalysisEntry{},
		Status:   StatusIdle,
	}
}

// Clone returns a deep copy of the state.
func (s SessionState) Clone() SessionState {
	out := s
	out.Results = append(make([]ScrapeResult, 0, len(s.Results)), s.Results...)
	out.Analysis = append(make([]AnalysisEntry, 0, len(s.Analysis)), s.Analysis...)
	return out
}

// IsEmpty reports whether there is nothing to render.
func (s SessionState) IsEmpty() bool {
	return len(s.Results) == 0 && len(s.Analysis) == 0
}

// HasError reports whether the session is in the error state.
func (s SessionState) HasError() bool {
	return s.Status == StatusError
}

// Payload returns the data/analysis portion of the state in wire shape.
func (s SessionState) Payload() Payload {
	c := s.Clone()
	return Payload{Data: c.Results, Analysis: c.Analysis}
}

// MaxCount returns the largest analysis count, or 0 if there is none.
func (s SessionState) MaxCount() int {
	highest := 0
	for _, e := range s.Analysis {
		if e.Count > highest {
			highest = e.Count
		}
	}
	return highest
}
