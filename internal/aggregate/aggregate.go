package aggregate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/serpclient/internal/model"
)

// Fragment is the part of the session state produced from one payload.
type Fragment struct {
	// Results in backend order.
	Results []model.ScrapeResult

	// Analysis in backend order, names unique.
	Analysis []model.AnalysisEntry

	// Dropped is the number of records discarded in lenient mode.
	Dropped int
}

// Aggregator validates backend payloads.
// It holds no mutable state and is safe for concurrent use.
type Aggregator struct {
	strict bool
	logger *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithStrict makes any malformed record fail the whole aggregation.
func WithStrict(strict bool) Option {
	return func(a *Aggregator) {
		a.strict = strict
	}
}

// WithLogger sets the logger used to report dropped records.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// New creates an Aggregator. Lenient mode is the default.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Strict reports whether strict validation is enabled.
func (a *Aggregator) Strict() bool {
	return a.strict
}

// envelope captures the two arrays without decoding their records, so a
// single bad record cannot fail the whole decode.
type envelope struct {
	Data     json.RawMessage `json:"data"`
	Analysis json.RawMessage `json:"analysis"`
}

// rawResult uses pointers to tell a missing field from an empty one.
type rawResult struct {
	Query *string `json:"query"`
	Title *string `json:"title"`
	Link  *string `json:"link"`
}

type rawEntry struct {
	Name  *string `json:"name"`
	Count *int    `json:"count"`
}

// Aggregate decodes and validates raw payload bytes.
func (a *Aggregator) Aggregate(raw []byte) (Fragment, error) {
	var env envelope
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Fragment{}, fmt.Errorf("%w: expected JSON object", ErrMalformedPayload)
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Fragment{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	dataRecords, err := splitArray(env.Data)
	if err != nil {
		return Fragment{}, fmt.Errorf("%w: data: %v", ErrMalformedPayload, err)
	}
	analysisRecords, err := splitArray(env.Analysis)
	if err != nil {
		return Fragment{}, fmt.Errorf("%w: analysis: %v", ErrMalformedPayload, err)
	}

	frag := Fragment{
		Results:  make([]model.ScrapeResult, 0, len(dataRecords)),
		Analysis: make([]model.AnalysisEntry, 0, len(analysisRecords)),
	}

	for i, rec := range dataRecords {
		r, ok := decodeResult(rec)
		if !ok {
			if err := a.reject("data", i); err != nil {
				return Fragment{}, err
			}
			frag.Dropped++
			continue
		}
		frag.Results = append(frag.Results, r)
	}

	seen := make(map[string]bool, len(analysisRecords))
	for i, rec := range analysisRecords {
		e, ok := decodeEntry(rec)
		if !ok || seen[e.Name] {
			if err := a.reject("analysis", i); err != nil {
				return Fragment{}, err
			}
			frag.Dropped++
			continue
		}
		seen[e.Name] = true
		frag.Analysis = append(frag.Analysis, e)
	}

	if frag.Dropped > 0 {
		a.logger.Warn("dropped malformed records",
			"dropped", frag.Dropped,
			"results", len(frag.Results),
			"analysis", len(frag.Analysis),
		)
	}

	return frag, nil
}

// AggregatePayload validates an already decoded payload.
// It is used when replaying snapshots from history.
func (a *Aggregator) AggregatePayload(p model.Payload) (Fragment, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return Fragment{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return a.Aggregate(raw)
}

// reject returns an error in strict mode and logs the drop otherwise.
func (a *Aggregator) reject(field string, index int) error {
	if a.strict {
		return fmt.Errorf("%w: %s[%d]", ErrMalformedRecord, field, index)
	}
	a.logger.Debug("dropping malformed record", "field", field, "index", index)
	return nil
}

// splitArray splits a JSON array into its elements.
// Absent and null values yield an empty slice.
func splitArray(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '[' {
		return nil, errors.New("expected array")
	}
	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func decodeResult(raw json.RawMessage) (model.ScrapeResult, bool) {
	var r rawResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return model.ScrapeResult{}, false
	}
	if r.Query == nil || r.Title == nil || r.Link == nil {
		return model.ScrapeResult{}, false
	}
	return model.ScrapeResult{Query: *r.Query, Title: *r.Title, Link: *r.Link}, true
}

func decodeEntry(raw json.RawMessage) (model.AnalysisEntry, bool) {
	var e rawEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return model.AnalysisEntry{}, false
	}
	if e.Name == nil || *e.Name == "" || e.Count == nil || *e.Count < 0 {
		return model.AnalysisEntry{}, false
	}
	return model.AnalysisEntry{Name: *e.Name, Count: *e.Count}, true
}
