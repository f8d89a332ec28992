// Package metrics exposes the custodytree CLI's Prometheus instruments.
// pkg/custodytree itself never imports this package or prometheus
// directly — the tree stays dependency-free; the CLI command layer
// records outcomes into a *Metrics after each call, using domain
// instrument names and the Prometheus client directly rather than OTel
// metrics, since the CLI serves them over its own --metrics-addr rather
// than exporting via OTLP.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for one custodytree process.
type Metrics struct {
	Inserts  *prometheus.CounterVec
	Deletes  *prometheus.CounterVec
	Merges   prometheus.Counter
	Splits   prometheus.Counter
	Drains   prometheus.Counter
	Occupied prometheus.Gauge
	Capacity prometheus.Gauge
}

// New registers the custodytree instruments against reg and returns the
// handle the CLI uses to record outcomes.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Inserts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "custodytree_inserts_total",
			Help: "Total number of insert operations, labeled by outcome.",
		}, []string{"outcome"}),
		Deletes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "custodytree_deletes_total",
			Help: "Total number of delete operations, labeled by outcome.",
		}, []string{"outcome"}),
		Merges: factory.NewCounter(prometheus.CounterOpts{
			Name: "custodytree_merges_total",
			Help: "Total number of inserts that merged into an existing adjacent range.",
		}),
		Splits: factory.NewCounter(prometheus.CounterOpts{
			Name: "custodytree_splits_total",
			Help: "Total number of deletes that split a range in two.",
		}),
		Drains: factory.NewCounter(prometheus.CounterOpts{
			Name: "custodytree_drains_total",
			Help: "Total number of ranges yielded by a pop-mode iterator step.",
		}),
		Occupied: factory.NewGauge(prometheus.GaugeOpts{
			Name: "custodytree_arena_occupied",
			Help: "Number of arena cells currently holding a live range.",
		}),
		Capacity: factory.NewGauge(prometheus.GaugeOpts{
			Name: "custodytree_arena_capacity",
			Help: "Total number of arena cells the tree was created with.",
		}),
	}
}

// OutcomeLabel maps an error returned by a Tree operation to the label
// value recorded against Inserts/Deletes: "ok" for a nil error, the
// sentinel error's message otherwise.
func OutcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}

	return err.Error()
}

// ObserveOccupancy records the arena's current size and capacity.
func (m *Metrics) ObserveOccupancy(size, capacity uint32) {
	if m == nil {
		return
	}

	m.Occupied.Set(float64(size))
	m.Capacity.Set(float64(capacity))
}
