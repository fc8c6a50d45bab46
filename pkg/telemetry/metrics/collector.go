package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sentra-hq/minerva/pkg/config"
	"sentra-hq/minerva/pkg/escalation"
	"sentra-hq/minerva/pkg/policy/engine"
)

// The collector plugs into the queue's lifecycle hook.
var _ escalation.MetricsRecorder = (*Collector)(nil)

// Collector is the orchestrator for all Prometheus metrics in minerva. It
// manages metric registration and provides a unified recording interface for
// the pipeline and the escalation queue.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Decision pipeline metrics
	decisionMetrics *DecisionMetrics

	// Escalation queue metrics
	queueMetrics *QueueMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "sentra"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "minerva"
	}
	if len(cfg.ClassificationDurationBuckets) == 0 {
		cfg.ClassificationDurationBuckets = []float64{
			0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1,
		}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.decisionMetrics = NewDecisionMetrics(cfg, registry)
	c.queueMetrics = NewQueueMetrics(cfg, registry)

	return c
}

// RecordDecision records a completed policy decision.
func (c *Collector) RecordDecision(decision *engine.Decision) {
	if !c.config.Enabled || decision == nil {
		return
	}

	c.decisionMetrics.RecordDecision(decision)
}

// RecordClassification records the duration of one event's classification.
func (c *Collector) RecordClassification(duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.decisionMetrics.RecordClassification(duration)
}

// RecordValidationFailure records a rejected input event.
func (c *Collector) RecordValidationFailure() {
	if !c.config.Enabled {
		return
	}

	c.decisionMetrics.RecordValidationFailure()
}

// RecordTicketEvent records a queue lifecycle event
// ("enqueued", "claimed", "resolved", "expired").
func (c *Collector) RecordTicketEvent(event string) {
	if !c.config.Enabled {
		return
	}

	c.queueMetrics.RecordTicketEvent(event)
}

// RecordSLABreach records an SLA deadline breach.
func (c *Collector) RecordSLABreach() {
	if !c.config.Enabled {
		return
	}

	c.queueMetrics.RecordSLABreach()
}

// UpdateQueueDepth updates the per-state queue depth gauges.
func (c *Collector) UpdateQueueDepth(counts map[escalation.State]int) {
	if !c.config.Enabled {
		return
	}

	c.queueMetrics.UpdateDepth(counts)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler serving the collector's metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
