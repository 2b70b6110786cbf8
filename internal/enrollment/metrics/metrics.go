package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts enrollment-side record lifecycle events.
type Metrics struct {
	PassengersEnrolled prometheus.Counter
	PassengersDeleted  prometheus.Counter
	DataCleared        prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		PassengersEnrolled: f.NewCounter(prometheus.CounterOpts{
			Name: "truida_passengers_enrolled_total",
			Help: "Total number of passengers enrolled",
		}),
		PassengersDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "truida_passengers_deleted_total",
			Help: "Total number of passenger records deleted by staff",
		}),
		DataCleared: f.NewCounter(prometheus.CounterOpts{
			Name: "truida_data_cleared_total",
			Help: "Total number of clear-all operations",
		}),
	}
}

func (m *Metrics) IncrementEnrolled() {
	m.PassengersEnrolled.Inc()
}

func (m *Metrics) IncrementDeleted() {
	m.PassengersDeleted.Inc()
}

func (m *Metrics) IncrementCleared() {
	m.DataCleared.Inc()
}
