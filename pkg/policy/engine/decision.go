package engine

import (
	"time"

	"sentra-hq/minerva/pkg/classifier"
)

// Action is the enforcement outcome for an event.
type Action string

const (
	// ActionAllow permits the interaction unchanged.
	ActionAllow Action = "allow"

	// ActionRedact permits the interaction with partial content removal.
	ActionRedact Action = "redact"

	// ActionBlock rejects the interaction.
	ActionBlock Action = "block"

	// ActionEscalate routes the interaction to human review.
	ActionEscalate Action = "escalate"
)

// precedence orders actions from least to most severe. Higher wins.
func (a Action) precedence() int {
	switch a {
	case ActionEscalate:
		return 3
	case ActionBlock:
		return 2
	case ActionRedact:
		return 1
	default:
		return 0
	}
}

// StricterOrEqual reports whether a is at least as severe as b.
func (a Action) StricterOrEqual(b Action) bool {
	return a.precedence() >= b.precedence()
}

// Valid reports whether the action is one of the defined enforcement
// outcomes.
func (a Action) Valid() bool {
	switch a {
	case ActionAllow, ActionRedact, ActionBlock, ActionEscalate:
		return true
	}
	return false
}

// Decision is the enforcement decision for a single event.
//
// Decisions are created exactly once per event and never mutated. A decision
// is terminal unless Action is ActionEscalate, in which case an escalation
// ticket referencing it is spawned.
type Decision struct {
	// EventID references the evaluated event.
	EventID string `json:"event_id"`

	// Action is the enforcement outcome.
	Action Action `json:"action"`

	// Tier the event was evaluated under.
	Tier string `json:"tier"`

	// TriggeredCategories lists every category that crossed the winning
	// precedence band, sorted for determinism.
	TriggeredCategories []string `json:"triggered_categories"`

	// ASLTriggered is true when a capability trigger fired.
	ASLTriggered bool `json:"asl_triggered"`

	// ASLSeverity is the highest capability severity that fired, empty
	// otherwise.
	ASLSeverity string `json:"asl_severity,omitempty"`

	// PolicyVersion is the threshold snapshot the decision was made under.
	PolicyVersion string `json:"policy_version"`

	// Reason is a non-empty, human-readable explanation.
	Reason string `json:"reason"`

	// Timestamp is when the decision was made.
	Timestamp time.Time `json:"timestamp"`

	// Scores snapshots the per-category confidences for audit.
	Scores map[classifier.RiskCategory]float64 `json:"scores,omitempty"`
}

// Clone returns a deep copy of the decision.
func (d *Decision) Clone() *Decision {
	c := *d
	if d.TriggeredCategories != nil {
		c.TriggeredCategories = append([]string(nil), d.TriggeredCategories...)
	}
	if d.Scores != nil {
		c.Scores = make(map[classifier.RiskCategory]float64, len(d.Scores))
		for cat, score := range d.Scores {
			c.Scores[cat] = score
		}
	}
	return &c
}
