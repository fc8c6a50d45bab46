package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sentra-hq/minerva/pkg/config"
	"sentra-hq/minerva/pkg/policy/engine"
)

// DecisionMetrics tracks metrics for the classification and decision
// pipeline.
//
// Metrics:
//   - sentra_minerva_decisions_total: Decisions by action and tier
//   - sentra_minerva_category_triggers_total: Triggered categories by action
//   - sentra_minerva_asl_triggers_total: Capability trigger breaches by severity
//   - sentra_minerva_classification_duration_seconds: Classification duration
//   - sentra_minerva_validation_failures_total: Rejected input events
type DecisionMetrics struct {
	decisionsTotal *prometheus.CounterVec

	categoryTriggersTotal *prometheus.CounterVec

	aslTriggersTotal *prometheus.CounterVec

	classificationDuration prometheus.Histogram

	validationFailuresTotal prometheus.Counter
}

// NewDecisionMetrics creates and registers decision metrics with the
// provided registry.
func NewDecisionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *DecisionMetrics {
	dm := &DecisionMetrics{
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decisions_total",
				Help:      "Total number of policy decisions",
			},
			[]string{"action", "tier"},
		),

		categoryTriggersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "category_triggers_total",
				Help:      "Total number of risk category threshold crossings",
			},
			[]string{"category", "action"},
		),

		aslTriggersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "asl_triggers_total",
				Help:      "Total number of capability trigger breaches",
			},
			[]string{"severity"},
		),

		classificationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "classification_duration_seconds",
				Help:      "Duration of event classification in seconds",
				Buckets:   cfg.ClassificationDurationBuckets,
			},
		),

		validationFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_failures_total",
				Help:      "Total number of events rejected as malformed",
			},
		),
	}

	registry.MustRegister(
		dm.decisionsTotal,
		dm.categoryTriggersTotal,
		dm.aslTriggersTotal,
		dm.classificationDuration,
		dm.validationFailuresTotal,
	)

	return dm
}

// RecordDecision records one policy decision.
func (dm *DecisionMetrics) RecordDecision(decision *engine.Decision) {
	dm.decisionsTotal.WithLabelValues(string(decision.Action), decision.Tier).Inc()

	for _, category := range decision.TriggeredCategories {
		dm.categoryTriggersTotal.WithLabelValues(category, string(decision.Action)).Inc()
	}

	if decision.ASLTriggered {
		severity := decision.ASLSeverity
		if severity == "" {
			severity = "unknown"
		}
		dm.aslTriggersTotal.WithLabelValues(severity).Inc()
	}
}

// RecordClassification records one classification duration.
func (dm *DecisionMetrics) RecordClassification(duration time.Duration) {
	dm.classificationDuration.Observe(duration.Seconds())
}

// RecordValidationFailure records a rejected input event.
func (dm *DecisionMetrics) RecordValidationFailure() {
	dm.validationFailuresTotal.Inc()
}
