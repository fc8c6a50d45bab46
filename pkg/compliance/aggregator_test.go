package compliance

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"sentra-hq/minerva/pkg/decisionlog"
	"sentra-hq/minerva/pkg/policy/engine"
)

var windowStart = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func decisionAt(eventID string, action engine.Action, tier string, offset time.Duration) *engine.Decision {
	d := &engine.Decision{
		EventID:       eventID,
		Action:        action,
		Tier:          tier,
		PolicyVersion: "test-1",
		Reason:        "no policy thresholds exceeded",
		Timestamp:     windowStart.Add(offset),
	}
	if action != engine.ActionAllow {
		d.TriggeredCategories = []string{"cbrn"}
		d.Reason = "cbrn risk 0.40 exceeded general threshold 0.15"
	}
	if action == engine.ActionEscalate {
		d.ASLTriggered = true
		d.ASLSeverity = "asl_3"
	}
	return d
}

// TestSummarize_Counts tests the headline numbers.
func TestSummarize_Counts(t *testing.T) {
	agg := NewAggregator(nil)
	window := Window{Start: windowStart, End: windowStart.Add(24 * time.Hour)}

	decisions := []*engine.Decision{
		decisionAt("evt-1", engine.ActionAllow, "general", time.Hour),
		decisionAt("evt-2", engine.ActionAllow, "enterprise", 2*time.Hour),
		decisionAt("evt-3", engine.ActionBlock, "general", 3*time.Hour),
		decisionAt("evt-4", engine.ActionEscalate, "general", 4*time.Hour),
		decisionAt("evt-5", engine.ActionRedact, "enterprise", 5*time.Hour),
	}

	summary := agg.Summarize(decisions, window)

	if summary.TotalDecisions != 5 {
		t.Errorf("TotalDecisions = %d, want 5", summary.TotalDecisions)
	}
	if summary.BlockedCount != 1 || summary.EscalatedCount != 1 {
		t.Errorf("blocked/escalated = %d/%d, want 1/1", summary.BlockedCount, summary.EscalatedCount)
	}
	if summary.ASLTriggers != 1 {
		t.Errorf("ASLTriggers = %d, want 1", summary.ASLTriggers)
	}

	// 1 - (1+1)/5
	if math.Abs(summary.ComplianceRate-0.6) > 1e-9 {
		t.Errorf("ComplianceRate = %v, want 0.6", summary.ComplianceRate)
	}

	if got := summary.ActionsByCategory["cbrn"][engine.ActionBlock]; got != 1 {
		t.Errorf("cbrn block count = %d, want 1", got)
	}
	if got := summary.ActionsByCategory["cbrn"][engine.ActionEscalate]; got != 1 {
		t.Errorf("cbrn escalate count = %d, want 1", got)
	}
}

// TestSummarize_WindowIsHalfOpen tests boundary handling.
func TestSummarize_WindowIsHalfOpen(t *testing.T) {
	agg := NewAggregator(nil)
	window := Window{Start: windowStart, End: windowStart.Add(24 * time.Hour)}

	decisions := []*engine.Decision{
		decisionAt("before", engine.ActionAllow, "general", -time.Minute),
		decisionAt("at-start", engine.ActionAllow, "general", 0),
		decisionAt("at-end", engine.ActionAllow, "general", 24*time.Hour),
	}

	summary := agg.Summarize(decisions, window)
	if summary.TotalDecisions != 1 {
		t.Errorf("TotalDecisions = %d, want 1 (start inclusive, end exclusive)", summary.TotalDecisions)
	}
}

// TestSummarize_ControlMapping tests the catalog mapping and sample caps.
func TestSummarize_ControlMapping(t *testing.T) {
	agg := NewAggregator(nil)
	window := Window{Start: windowStart, End: windowStart.Add(24 * time.Hour)}

	var decisions []*engine.Decision
	for i := 0; i < 8; i++ {
		decisions = append(decisions,
			decisionAt(fmt.Sprintf("evt-%d", i), engine.ActionBlock, "enterprise", time.Duration(i)*time.Minute))
	}

	summary := agg.Summarize(decisions, window)

	byID := make(map[string]ControlEvidence)
	for _, control := range summary.Controls {
		byID[control.ControlID] = control
	}

	risk := byID["iso_8.2.3"]
	if risk.EvidenceCount != 8 {
		t.Errorf("risk assessment evidence = %d, want 8", risk.EvidenceCount)
	}
	if len(risk.SampleEvents) != 5 {
		t.Errorf("len(SampleEvents) = %d, want capped at 5", len(risk.SampleEvents))
	}
	if risk.Status != StatusCompliant {
		t.Errorf("status = %q, want %q", risk.Status, StatusCompliant)
	}

	access := byID["iso_9.2.1"]
	if access.EvidenceCount != 8 {
		t.Errorf("access management evidence = %d, want 8 (all non-general)", access.EvidenceCount)
	}

	monitoring := byID["iso_9.4.1"]
	if monitoring.EvidenceCount != 8 {
		t.Errorf("monitoring evidence = %d, want 8", monitoring.EvidenceCount)
	}
}

// TestSummarize_EmptyWindow tests the degenerate report.
func TestSummarize_EmptyWindow(t *testing.T) {
	agg := NewAggregator(nil)
	window := Window{Start: windowStart, End: windowStart.Add(24 * time.Hour)}

	summary := agg.Summarize(nil, window)

	if summary.TotalDecisions != 0 {
		t.Errorf("TotalDecisions = %d, want 0", summary.TotalDecisions)
	}
	if summary.ComplianceRate != 1.0 {
		t.Errorf("ComplianceRate = %v, want 1.0 for empty window", summary.ComplianceRate)
	}
	for _, control := range summary.Controls {
		if control.Status != StatusNeedsAttention {
			t.Errorf("control %s status = %q, want %q", control.ControlID, control.Status, StatusNeedsAttention)
		}
	}
}

// TestReport_RoundTripTotal tests that summarizing the full log recovers
// exactly the number of decisions appended.
func TestReport_RoundTripTotal(t *testing.T) {
	storage := decisionlog.NewMemoryStorage()
	defer storage.Close()

	actions := []engine.Action{
		engine.ActionAllow, engine.ActionRedact, engine.ActionBlock, engine.ActionEscalate,
	}

	const total = 1500 // exceeds the default query limit
	for i := 0; i < total; i++ {
		d := decisionAt(fmt.Sprintf("evt-%d", i), actions[i%len(actions)], "general", time.Duration(i)*time.Second)
		if err := storage.Append(context.Background(), d); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}

	agg := NewAggregator(nil)
	summary, err := agg.Report(context.Background(), storage, 7, windowStart.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Report() failed: %v", err)
	}

	if summary.TotalDecisions != total {
		t.Errorf("TotalDecisions = %d, want %d", summary.TotalDecisions, total)
	}

	count, err := storage.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if summary.TotalDecisions != count {
		t.Errorf("summary total %d != log count %d", summary.TotalDecisions, count)
	}
}

// TestReport_RejectsNonPositiveWindow tests input validation.
func TestReport_RejectsNonPositiveWindow(t *testing.T) {
	storage := decisionlog.NewMemoryStorage()
	defer storage.Close()

	agg := NewAggregator(nil)
	if _, err := agg.Report(context.Background(), storage, 0, time.Now()); err == nil {
		t.Fatal("Report() = nil, want error for zero window")
	}
}
