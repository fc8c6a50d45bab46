package compliance

import (
	"time"

	"sentra-hq/minerva/pkg/policy/engine"
)

// Standard names the framework the control catalog maps to.
const Standard = "ISO/IEC 42001:2023"

// ComplianceStatus values for a control.
const (
	// StatusCompliant means the window contains evidence for the control.
	StatusCompliant = "compliant"

	// StatusNeedsAttention means the window contains no evidence.
	StatusNeedsAttention = "needs_attention"
)

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Control maps a class of enforcement decisions onto a governance control.
type Control struct {
	// ID uniquely identifies the control.
	ID string

	// Clause is the standard's clause reference.
	Clause string

	// Name is the control's human-readable name.
	Name string

	// Matches reports whether a decision evidences the control.
	Matches func(d *engine.Decision) bool
}

// ControlEvidence is the aggregated evidence for one control over a window.
type ControlEvidence struct {
	ControlID     string   `json:"control_id"`
	Clause        string   `json:"iso_clause"`
	ControlName   string   `json:"control_name"`
	EvidenceCount int      `json:"evidence_count"`
	SampleEvents  []string `json:"sample_events"`
	Status        string   `json:"compliance_status"`
}

// Summary is the aggregate compliance evidence over a window. Derived and
// recomputable; never authoritative state.
type Summary struct {
	GeneratedAt time.Time `json:"report_date"`
	Window      Window    `json:"window"`
	Standard    string    `json:"iso_standard"`

	TotalDecisions int `json:"total_decisions"`
	BlockedCount   int `json:"blocked_count"`
	EscalatedCount int `json:"escalated_count"`
	ASLTriggers    int `json:"asl_triggers"`

	// ComplianceRate is 1 - (blocked+escalated)/total, in [0,1].
	ComplianceRate float64 `json:"compliance_rate"`

	// ActionsByCategory counts decisions per triggered category and action.
	ActionsByCategory map[string]map[engine.Action]int `json:"actions_by_category"`

	Controls []ControlEvidence `json:"controls"`

	Attestation string `json:"attestation"`
}

// DefaultControls returns the built-in control catalog.
func DefaultControls() []Control {
	return []Control{
		{
			ID:     "iso_9.2.1",
			Clause: "9.2.1",
			Name:   "User access management",
			Matches: func(d *engine.Decision) bool {
				return d.Tier != "" && d.Tier != "general"
			},
		},
		{
			ID:     "iso_8.2.3",
			Clause: "8.2.3",
			Name:   "Technical risk assessment",
			Matches: func(d *engine.Decision) bool {
				return d.Action == engine.ActionBlock || d.Action == engine.ActionEscalate
			},
		},
		{
			ID:     "iso_9.4.1",
			Clause: "9.4.1",
			Name:   "Information monitoring",
			Matches: func(d *engine.Decision) bool {
				return true
			},
		},
	}
}
