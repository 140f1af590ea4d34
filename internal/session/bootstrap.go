package session

import (
	"context"

	"github.com/nao1215/serpclient/internal/model"
)

// LoadExisting fetches previously computed results and applies them.
//
// It runs at most once per session; later calls return false immediately.
// Any failure (network, non-2xx, malformed payload) leaves the state at its
// initial value and is only logged. The status is never set to Error here.
// It reports whether results were applied.
func (s *Session) LoadExisting(ctx context.Context) bool {
	applied := false
	s.bootstrapOnce.Do(func() {
		applied = s.loadExisting(ctx)
	})
	return applied
}

func (s *Session) loadExisting(ctx context.Context) bool {
	raw, err := s.backend.Results(ctx)
	if err != nil {
		s.logger.Warn("initial fetch failed", "error", err)
		s.metrics.bootstrapFailed()
		return false
	}

	frag, err := s.aggregator.Aggregate(raw)
	if err != nil {
		s.logger.Warn("initial fetch returned unusable payload", "error", err)
		s.metrics.bootstrapFailed()
		return false
	}
	s.metrics.dropped(frag.Dropped)

	// Status is left alone: it is Idle at session start, and a scrape that
	// was somehow started first keeps its Loading guard.
	s.update(func(st *model.SessionState) bool {
		st.Results = frag.Results
		st.Analysis = frag.Analysis
		return true
	})

	s.logger.Debug("loaded existing results",
		"results", len(frag.Results),
		"analysis", len(frag.Analysis),
	)
	return true
}
