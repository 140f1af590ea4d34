package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric label values.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"

	reasonBusy         = "busy"
	reasonUnknownQuery = "unknown_query"
)

// Metrics records session activity as Prometheus metrics.
type Metrics struct {
	submissions       *prometheus.CounterVec
	rejections        *prometheus.CounterVec
	bootstrapFailures prometheus.Counter
	droppedRecords    prometheus.Counter
	loading           prometheus.Gauge
}

// NewMetrics creates the session metrics and registers them with reg.
// A nil reg creates unregistered metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "serpclient_scrape_submissions_total",
			Help: "Scrape submissions that reached the backend, by outcome.",
		}, []string{"outcome"}),
		rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "serpclient_scrape_rejections_total",
			Help: "Scrape submissions rejected before a request was sent, by reason.",
		}, []string{"reason"}),
		bootstrapFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "serpclient_bootstrap_failures_total",
			Help: "Failed loads of existing results at session start.",
		}),
		droppedRecords: f.NewCounter(prometheus.CounterOpts{
			Name: "serpclient_dropped_records_total",
			Help: "Malformed result or analysis records dropped during aggregation.",
		}),
		loading: f.NewGauge(prometheus.GaugeOpts{
			Name: "serpclient_scrape_in_flight",
			Help: "1 while a scrape request is in flight.",
		}),
	}
}

func (m *Metrics) submitted(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) rejected(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) bootstrapFailed() {
	m.bootstrapFailures.Inc()
}

func (m *Metrics) dropped(n int) {
	if n > 0 {
		m.droppedRecords.Add(float64(n))
	}
}

func (m *Metrics) setLoading(loading bool) {
	if loading {
		m.loading.Set(1)
		return
	}
	m.loading.Set(0)
}
