package lifecycle

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Swept         prometheus.Counter
	Runs          prometheus.Counter
	Failures      prometheus.Counter
	SweepDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Swept: f.NewCounter(prometheus.CounterOpts{
			Name: "truida_lifecycle_swept_total",
			Help: "Total number of departed passenger records removed",
		}),
		Runs: f.NewCounter(prometheus.CounterOpts{
			Name: "truida_lifecycle_sweeps_total",
			Help: "Total number of completed sweeps",
		}),
		Failures: f.NewCounter(prometheus.CounterOpts{
			Name: "truida_lifecycle_sweep_failures_total",
			Help: "Total number of sweeps that failed in the store",
		}),
		SweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "truida_lifecycle_sweep_duration_seconds",
			Help:    "Duration of sweeps including lock wait",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}

func (m *Metrics) ObserveSweep(removed int, d time.Duration) {
	m.Runs.Inc()
	m.Swept.Add(float64(removed))
	m.SweepDuration.Observe(d.Seconds())
}

func (m *Metrics) IncrementFailures() {
	m.Failures.Inc()
}
