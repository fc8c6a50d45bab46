package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"sentra-hq/minerva/pkg/decisionlog"
	"sentra-hq/minerva/pkg/policy/engine"
)

// AggregatorConfig configures the evidence aggregator.
type AggregatorConfig struct {
	// Controls is the control catalog to map decisions onto.
	// Default: DefaultControls.
	Controls []Control

	// MaxSampleEvents bounds the sample event IDs recorded per control.
	// Default: 5
	MaxSampleEvents int

	// Attestation is the report's attestation line.
	Attestation string
}

// DefaultAggregatorConfig returns an AggregatorConfig with default values.
func DefaultAggregatorConfig() *AggregatorConfig {
	return &AggregatorConfig{
		Controls:        DefaultControls(),
		MaxSampleEvents: 5,
		Attestation:     "This report demonstrates continuous monitoring and control implementation for AI system governance.",
	}
}

// Aggregator maps decision streams onto control-family evidence.
type Aggregator struct {
	config *AggregatorConfig
	logger *slog.Logger
}

// NewAggregator creates an evidence aggregator.
func NewAggregator(config *AggregatorConfig) *Aggregator {
	if config == nil {
		config = DefaultAggregatorConfig()
	}
	if len(config.Controls) == 0 {
		config.Controls = DefaultControls()
	}
	if config.MaxSampleEvents <= 0 {
		config.MaxSampleEvents = 5
	}

	return &Aggregator{
		config: config,
		logger: slog.Default().With("component", "compliance.aggregator"),
	}
}

// Summarize aggregates the given decisions over the window. Decisions whose
// timestamp falls outside the window are ignored; everything inside is
// counted exactly once. Summarize has no side effects.
func (a *Aggregator) Summarize(decisions []*engine.Decision, window Window) *Summary {
	summary := &Summary{
		GeneratedAt:       time.Now().UTC(),
		Window:            window,
		Standard:          Standard,
		ActionsByCategory: make(map[string]map[engine.Action]int),
		Attestation:       a.config.Attestation,
	}

	samples := make(map[string][]string, len(a.config.Controls))
	counts := make(map[string]int, len(a.config.Controls))

	for _, d := range decisions {
		if d == nil || !window.Contains(d.Timestamp) {
			continue
		}

		summary.TotalDecisions++
		switch d.Action {
		case engine.ActionBlock:
			summary.BlockedCount++
		case engine.ActionEscalate:
			summary.EscalatedCount++
		}
		if d.ASLTriggered {
			summary.ASLTriggers++
		}

		for _, category := range d.TriggeredCategories {
			byAction := summary.ActionsByCategory[category]
			if byAction == nil {
				byAction = make(map[engine.Action]int)
				summary.ActionsByCategory[category] = byAction
			}
			byAction[d.Action]++
		}

		for _, control := range a.config.Controls {
			if !control.Matches(d) {
				continue
			}
			counts[control.ID]++
			if len(samples[control.ID]) < a.config.MaxSampleEvents {
				samples[control.ID] = append(samples[control.ID], d.EventID)
			}
		}
	}

	summary.ComplianceRate = complianceRate(summary.TotalDecisions, summary.BlockedCount, summary.EscalatedCount)

	for _, control := range a.config.Controls {
		status := StatusCompliant
		if counts[control.ID] == 0 {
			status = StatusNeedsAttention
		}
		summary.Controls = append(summary.Controls, ControlEvidence{
			ControlID:     control.ID,
			Clause:        control.Clause,
			ControlName:   control.Name,
			EvidenceCount: counts[control.ID],
			SampleEvents:  samples[control.ID],
			Status:        status,
		})
	}
	sort.Slice(summary.Controls, func(i, j int) bool {
		return summary.Controls[i].ControlID < summary.Controls[j].ControlID
	})

	return summary
}

// Report queries the decision log for the trailing window and summarizes it.
// The single unbounded query reads a consistent snapshot of the log.
func (a *Aggregator) Report(ctx context.Context, storage decisionlog.Storage, windowDays int, now time.Time) (*Summary, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("window days must be positive, got %d", windowDays)
	}

	now = now.UTC()
	window := Window{Start: now.AddDate(0, 0, -windowDays), End: now}

	decisions, err := storage.Query(ctx, &decisionlog.Query{
		Since: window.Start,
		Until: window.End,
		Limit: -1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read decision log: %w", err)
	}

	summary := a.Summarize(decisions, window)
	a.logger.Info("compliance summary generated",
		"window_days", windowDays,
		"total_decisions", summary.TotalDecisions,
		"compliance_rate", summary.ComplianceRate)
	return summary, nil
}

// complianceRate computes 1 - (blocked+escalated)/total. An empty window
// reports full compliance.
func complianceRate(total, blocked, escalated int) float64 {
	if total == 0 {
		return 1.0
	}
	return 1.0 - float64(blocked+escalated)/float64(total)
}
