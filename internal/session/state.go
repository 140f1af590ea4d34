package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nao1215/serpclient/internal/aggregate"
	"github.com/nao1215/serpclient/internal/catalog"
	"github.com/nao1215/serpclient/internal/model"
)

// Backend is the part of the backend contract a session needs.
// *backend.Client implements it.
type Backend interface {
	Results(ctx context.Context) ([]byte, error)
	Scrape(ctx context.Context, queries []catalog.Query) ([]byte, error)
}

// SnapshotSink receives every successful scrape snapshot.
// *history.Store implements it.
type SnapshotSink interface {
	SaveSnapshot(ctx context.Context, query string, state model.SessionState) error
}

// Listener is called with a copy of the state after each transition.
type Listener func(model.SessionState)

// Session holds the single SessionState of one client session.
type Session struct {
	mu        sync.Mutex
	state     model.SessionState
	listeners map[int]Listener
	order     []int
	nextID    int

	backend    Backend
	aggregator *aggregate.Aggregator
	logger     *slog.Logger
	metrics    *Metrics
	sink       SnapshotSink

	bootstrapOnce sync.Once
	inflight      sync.WaitGroup
}

// Option configures a Session.
type Option func(*Session)

// WithAggregator sets the aggregator used for every payload.
// The default is a lenient aggregator.
func WithAggregator(a *aggregate.Aggregator) Option {
	return func(s *Session) {
		s.aggregator = a
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithSnapshotSink forwards successful scrape snapshots to sink.
func WithSnapshotSink(sink SnapshotSink) Option {
	return func(s *Session) {
		s.sink = sink
	}
}

// New creates a session with the empty initial state.
func New(b Backend, opts ...Option) *Session {
	s := &Session{
		state:     model.NewSessionState(),
		listeners: make(map[int]Listener),
		backend:   b,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.aggregator == nil {
		s.aggregator = aggregate.New(aggregate.WithLogger(s.logger))
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers l to be called after every state transition and
// returns a function that removes it. Listeners run on the goroutine that
// performed the transition, outside the session lock, in registration order.
func (s *Session) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

// update applies fn to the state under the lock and notifies listeners.
// fn returns false to abort without notifying.
func (s *Session) update(fn func(st *model.SessionState) bool) bool {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return false
	}
	snap := s.state.Clone()
	ls := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		ls = append(ls, s.listeners[id])
	}
	s.metrics.setLoading(snap.Status == model.StatusLoading)
	s.mu.Unlock()

	for _, l := range ls {
		l(snap.Clone())
	}
	return true
}
