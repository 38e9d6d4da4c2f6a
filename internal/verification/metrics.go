package verification

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks anchoring outcomes.
type Metrics struct {
	AnchorLatency prometheus.Histogram
	AnchorTotal   *prometheus.CounterVec
	Degradations  *prometheus.CounterVec
	HashFailures  prometheus.Counter
}

// NewMetrics creates the anchoring metrics and registers them on registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnchorLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "orby",
			Subsystem: "anchor",
			Name:      "latency_seconds",
			Help:      "Anchoring latency in seconds, ledger confirmation included",
			Buckets:   []float64{0.005, 0.05, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		AnchorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orby",
			Subsystem: "anchor",
			Name:      "total",
			Help:      "Total number of anchoring attempts by resulting status",
		}, []string{"network", "status"}),
		Degradations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orby",
			Subsystem: "anchor",
			Name:      "degraded_total",
			Help:      "Total number of hash-only anchors by reason",
		}, []string{"reason"}),
		HashFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orby",
			Subsystem: "anchor",
			Name:      "hash_failures_total",
			Help:      "Total number of records that could not be fingerprinted",
		}),
	}

	registry.MustRegister(
		m.AnchorLatency,
		m.AnchorTotal,
		m.Degradations,
		m.HashFailures,
	)

	return m
}

// RecordOutcome records a finished anchoring attempt.
func (m *Metrics) RecordOutcome(out *Outcome) {
	m.AnchorTotal.WithLabelValues(out.Network.String(), out.Status.String()).Inc()
	m.AnchorLatency.Observe((time.Duration(out.LatencyMs) * time.Millisecond).Seconds())

	switch {
	case out.Status == StatusFailed:
		m.HashFailures.Inc()
	case out.Degraded:
		m.Degradations.WithLabelValues(out.Reason.String()).Inc()
	}
}

// Attach hooks the metrics to the orchestrator's events. The returned
// function detaches them.
func (m *Metrics) Attach(o *Orchestrator) (detach func()) {
	hook := o.Events.Anchored.Hook(m.RecordOutcome)

	return hook.Unhook
}
