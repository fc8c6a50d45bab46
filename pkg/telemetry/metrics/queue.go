package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"sentra-hq/minerva/pkg/config"
	"sentra-hq/minerva/pkg/escalation"
)

// QueueMetrics tracks metrics for the escalation queue.
//
// Metrics:
//   - sentra_minerva_queue_depth: Tickets currently in each state
//   - sentra_minerva_tickets_total: Ticket lifecycle events
//   - sentra_minerva_sla_breaches_total: SLA deadline breaches
type QueueMetrics struct {
	depth *prometheus.GaugeVec

	ticketsTotal *prometheus.CounterVec

	slaBreachesTotal prometheus.Counter
}

// NewQueueMetrics creates and registers queue metrics with the provided
// registry.
func NewQueueMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *QueueMetrics {
	qm := &QueueMetrics{
		depth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "queue_depth",
				Help:      "Number of escalation tickets per state",
			},
			[]string{"state"},
		),

		ticketsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "tickets_total",
				Help:      "Total number of ticket lifecycle events",
			},
			[]string{"event"},
		),

		slaBreachesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "sla_breaches_total",
				Help:      "Total number of SLA deadline breaches",
			},
		),
	}

	registry.MustRegister(
		qm.depth,
		qm.ticketsTotal,
		qm.slaBreachesTotal,
	)

	return qm
}

// RecordTicketEvent records a ticket lifecycle event.
func (qm *QueueMetrics) RecordTicketEvent(event string) {
	qm.ticketsTotal.WithLabelValues(event).Inc()
}

// RecordSLABreach records an SLA deadline breach.
func (qm *QueueMetrics) RecordSLABreach() {
	qm.slaBreachesTotal.Inc()
}

// UpdateDepth updates the per-state depth gauges. States absent from counts
// reset to zero so a drained state does not report a stale depth.
func (qm *QueueMetrics) UpdateDepth(counts map[escalation.State]int) {
	states := []escalation.State{
		escalation.StatePending,
		escalation.StateInReview,
		escalation.StateResolved,
		escalation.StateExpired,
	}
	for _, state := range states {
		qm.depth.WithLabelValues(string(state)).Set(float64(counts[state]))
	}
}
