// Package metrics defines the Prometheus collectors a family tree reports to.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Metrics groups the collectors of one tree. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// Operations counts tree operations, labeled by operation name and
	// outcome.
	Operations *prometheus.CounterVec

	// Members tracks how many persons the tree holds.
	Members prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is convenient in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lineage_operations_total",
				Help: "Total number of family tree operations, by outcome",
			},
			[]string{"operation", "outcome"},
		),
		Members: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "lineage_members",
				Help: "Number of persons held by the family tree",
			},
		),
	}
}

// Observe counts one operation.
func (m *Metrics) Observe(operation string, ok bool) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeFailed
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
}

// SetMembers records the current member count.
func (m *Metrics) SetMembers(n int) {
	if m == nil {
		return
	}
	m.Members.Set(float64(n))
}
