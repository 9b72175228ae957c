package ranking

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricRankRequestsTotal        = "rank_requests_total"
	MetricRankDurationSeconds      = "rank_duration_seconds"
	MetricRankCandidatesConsidered = "rank_candidates_considered"
	MetricRankEmptyResultsTotal    = "rank_empty_results_total"
)

// Metrics contains Prometheus metrics for ranking engine operations.
// All operations are thread-safe.
type Metrics struct {
	rankRequests         *prometheus.CounterVec
	rankDuration         *prometheus.HistogramVec
	candidatesConsidered *prometheus.HistogramVec
	emptyResults         *prometheus.CounterVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to register them
// with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		rankRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRankRequestsTotal,
				Help: "Total number of rank requests by mode and status",
			},
			[]string{"mode", "status"},
		),
		rankDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricRankDurationSeconds,
				Help:    "Histogram of rank call duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"mode"},
		),
		candidatesConsidered: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricRankCandidatesConsidered,
				Help:    "Histogram of candidate pool sizes per rank call",
				Buckets: []float64{1, 10, 50, 100, 250, 500, 1000},
			},
			[]string{"mode"},
		),
		emptyResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRankEmptyResultsTotal,
				Help: "Total number of rank calls that produced an empty result page",
			},
			[]string{"mode"},
		),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.rankRequests,
		m.rankDuration,
		m.candidatesConsidered,
		m.emptyResults,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveRank records one completed rank call.
func (m *Metrics) ObserveRank(mode, status string, d time.Duration) {
	m.rankRequests.WithLabelValues(mode, status).Inc()
	m.rankDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// ObserveCandidatesConsidered records the size of a rank call's candidate pool.
func (m *Metrics) ObserveCandidatesConsidered(mode string, count int) {
	m.candidatesConsidered.WithLabelValues(mode).Observe(float64(count))
}

// IncEmptyResults increments the empty-result counter for a mode.
func (m *Metrics) IncEmptyResults(mode string) {
	m.emptyResults.WithLabelValues(mode).Inc()
}
