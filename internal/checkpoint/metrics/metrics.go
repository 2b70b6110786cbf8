package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the checkpoint engine.
// Tracks verification outcomes per checkpoint and the critical path duration.
type Metrics struct {
	Verifications  *prometheus.CounterVec
	VerifyDuration prometheus.Histogram
	LockWait       prometheus.Histogram
	BestSimilarity prometheus.Histogram
}

// New creates the checkpoint metrics on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Verifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "truida_checkpoint_verifications_total",
			Help: "Checkpoint verifications by checkpoint and outcome",
		}, []string{"checkpoint", "outcome"}),
		VerifyDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "truida_checkpoint_verify_duration_seconds",
			Help:    "Duration of Verify operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		LockWait: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "truida_checkpoint_lock_wait_seconds",
			Help:    "Time spent waiting for the per-record lock",
			Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		BestSimilarity: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "truida_checkpoint_best_similarity",
			Help:    "Cosine similarity of the selected candidate",
			Buckets: []float64{0, 0.25, 0.5, 0.75, 0.9, 0.95, 0.99, 1},
		}),
	}
}

func (m *Metrics) IncrementOutcome(checkpoint, outcome string) {
	m.Verifications.WithLabelValues(checkpoint, outcome).Inc()
}

// ObserveVerify records the duration of a Verify call started at start.
func (m *Metrics) ObserveVerify(start time.Time) {
	m.VerifyDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveLockWait(start time.Time) {
	m.LockWait.Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveSimilarity(score float64) {
	m.BestSimilarity.Observe(score)
}
