package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics emitted by the lifecycle engine.
type Metrics struct {
	ComplaintsCreated    prometheus.Counter
	Transitions          *prometheus.CounterVec
	GeofenceChecks       *prometheus.CounterVec
	Verdicts             *prometheus.CounterVec
	VerificationDuration prometheus.Histogram
	Votes                *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ComplaintsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "samadhan_complaints_created_total",
			Help: "Total number of complaints submitted",
		}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "samadhan_status_transitions_total",
			Help: "Lifecycle transitions applied, by edge",
		}, []string{"from", "to"}),
		GeofenceChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "samadhan_geofence_checks_total",
			Help: "Officer location checks, by outcome",
		}, []string{"outcome"}),
		Verdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "samadhan_verification_verdicts_total",
			Help: "Automated verification verdicts, by kind",
		}, []string{"verdict"}),
		VerificationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "samadhan_verification_duration_seconds",
			Help:    "End-to-end duration of one verification run",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 4, 8},
		}),
		Votes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "samadhan_community_votes_total",
			Help: "Community feedback votes, by direction",
		}, []string{"direction"}),
	}
}

// ObserveTransition records one applied lifecycle edge.
func (m *Metrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(from, to).Inc()
}
