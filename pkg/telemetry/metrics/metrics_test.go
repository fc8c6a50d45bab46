package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"sentra-hq/minerva/pkg/config"
	"sentra-hq/minerva/pkg/escalation"
	"sentra-hq/minerva/pkg/policy/engine"
)

func newTestCollector(t *testing.T) (*Collector, *prometheus.Registry) {
	t.Helper()

	registry := prometheus.NewRegistry()
	collector := NewCollector(&config.MetricsConfig{Enabled: true}, registry)
	return collector, registry
}

// TestCollector_RecordDecision tests the decision counters.
func TestCollector_RecordDecision(t *testing.T) {
	collector, registry := newTestCollector(t)

	collector.RecordDecision(&engine.Decision{
		Action:              engine.ActionEscalate,
		Tier:                "general",
		TriggeredCategories: []string{"cbrn", "jailbreak"},
		ASLTriggered:        true,
		ASLSeverity:         "asl_3",
	})
	collector.RecordDecision(&engine.Decision{
		Action: engine.ActionAllow,
		Tier:   "enterprise",
	})

	if got := testutil.ToFloat64(collector.decisionMetrics.decisionsTotal.WithLabelValues("escalate", "general")); got != 1 {
		t.Errorf("decisions_total{escalate,general} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.decisionMetrics.categoryTriggersTotal.WithLabelValues("cbrn", "escalate")); got != 1 {
		t.Errorf("category_triggers_total{cbrn,escalate} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.decisionMetrics.aslTriggersTotal.WithLabelValues("asl_3")); got != 1 {
		t.Errorf("asl_triggers_total{asl_3} = %v, want 1", got)
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}
	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	if !names["sentra_minerva_decisions_total"] {
		t.Errorf("registry families = %v, want sentra_minerva_decisions_total", names)
	}
}

// TestCollector_QueueMetrics tests queue gauges and counters.
func TestCollector_QueueMetrics(t *testing.T) {
	collector, _ := newTestCollector(t)

	collector.RecordTicketEvent("enqueued")
	collector.RecordTicketEvent("enqueued")
	collector.RecordSLABreach()
	collector.UpdateQueueDepth(map[escalation.State]int{
		escalation.StatePending:  2,
		escalation.StateInReview: 1,
	})

	if got := testutil.ToFloat64(collector.queueMetrics.ticketsTotal.WithLabelValues("enqueued")); got != 2 {
		t.Errorf("tickets_total{enqueued} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.queueMetrics.slaBreachesTotal); got != 1 {
		t.Errorf("sla_breaches_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.queueMetrics.depth.WithLabelValues("pending")); got != 2 {
		t.Errorf("queue_depth{pending} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.queueMetrics.depth.WithLabelValues("expired")); got != 0 {
		t.Errorf("queue_depth{expired} = %v, want 0 for absent state", got)
	}
}

// TestCollector_DisabledIsNoOp tests the enabled gate.
func TestCollector_DisabledIsNoOp(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(&config.MetricsConfig{Enabled: false}, registry)

	collector.RecordDecision(&engine.Decision{Action: engine.ActionBlock, Tier: "general"})
	collector.RecordClassification(time.Millisecond)
	collector.RecordValidationFailure()
	collector.RecordTicketEvent("enqueued")

	if got := testutil.ToFloat64(collector.decisionMetrics.decisionsTotal.WithLabelValues("block", "general")); got != 0 {
		t.Errorf("decisions_total = %v, want 0 when disabled", got)
	}
}

// TestCollector_Handler tests that the scrape handler is wired to the
// collector's registry.
func TestCollector_Handler(t *testing.T) {
	collector, _ := newTestCollector(t)

	if collector.Handler() == nil {
		t.Fatal("Handler() = nil")
	}
	if collector.Registry() == nil {
		t.Fatal("Registry() = nil")
	}
}
