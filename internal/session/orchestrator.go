package session

import (
	"context"

	"github.com/nao1215/serpclient/internal/catalog"
	"github.com/nao1215/serpclient/internal/model"
)

// Submit runs one scrape for q and blocks until it resolves.
//
// It returns ErrUnknownQuery or ErrBusy without side effects when the
// preconditions do not hold. Backend and payload failures are not returned:
// they move the session to StatusError with GenericErrorMessage and keep the
// previous results.
func (s *Session) Submit(ctx context.Context, q catalog.Query) error {
	if err := s.begin(q); err != nil {
		return err
	}
	s.resolve(ctx, q)
	return nil
}

// SubmitAsync is Submit without waiting for the request to resolve.
// The transition to StatusLoading has happened when it returns, so a
// following submission is rejected with ErrBusy until the request resolves.
func (s *Session) SubmitAsync(ctx context.Context, q catalog.Query) error {
	if err := s.begin(q); err != nil {
		return err
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.resolve(ctx, q)
	}()
	return nil
}

// Wait blocks until every request started by SubmitAsync has resolved.
func (s *Session) Wait() {
	s.inflight.Wait()
}

// begin checks the preconditions and enters StatusLoading.
func (s *Session) begin(q catalog.Query) error {
	if !catalog.Contains(q) {
		s.metrics.rejected(reasonUnknownQuery)
		return ErrUnknownQuery
	}

	started := s.update(func(st *model.SessionState) bool {
		if st.Status == model.StatusLoading {
			return false
		}
		st.Status = model.StatusLoading
		st.ErrorMessage = ""
		return true
	})
	if !started {
		s.metrics.rejected(reasonBusy)
		s.logger.Debug("scrape rejected while loading", "query", q)
		return ErrBusy
	}

	s.logger.Info("scrape started", "query", q)
	return nil
}

// resolve performs the request and applies its outcome.
func (s *Session) resolve(ctx context.Context, q catalog.Query) {
	raw, err := s.backend.Scrape(ctx, []catalog.Query{q})
	if err == nil {
		var frag fragment
		frag, err = s.aggregate(raw)
		if err == nil {
			s.succeed(ctx, q, frag)
			return
		}
	}

	s.logger.Warn("scrape failed", "query", q, "error", err)
	s.metrics.submitted(outcomeFailure)
	s.update(func(st *model.SessionState) bool {
		st.Status = model.StatusError
		st.ErrorMessage = GenericErrorMessage
		return true
	})
}

type fragment struct {
	results  []model.ScrapeResult
	analysis []model.AnalysisEntry
}

func (s *Session) aggregate(raw []byte) (fragment, error) {
	frag, err := s.aggregator.Aggregate(raw)
	if err != nil {
		return fragment{}, err
	}
	s.metrics.dropped(frag.Dropped)
	return fragment{results: frag.Results, analysis: frag.Analysis}, nil
}

func (s *Session) succeed(ctx context.Context, q catalog.Query, frag fragment) {
	var snap model.SessionState
	s.update(func(st *model.SessionState) bool {
		st.Results = frag.results
		st.Analysis = frag.analysis
		st.Status = model.StatusIdle
		st.ErrorMessage = ""
		snap = st.Clone()
		return true
	})
	s.metrics.submitted(outcomeSuccess)

	s.logger.Info("scrape completed",
		"query", q,
		"results", len(frag.results),
		"analysis", len(frag.analysis),
	)

	if s.sink != nil {
		if err := s.sink.SaveSnapshot(ctx, q.String(), snap); err != nil {
			s.logger.Error("failed to save snapshot", "query", q, "error", err)
		}
	}
}
