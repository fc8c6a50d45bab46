package escalation

import (
	"time"

	"sentra-hq/minerva/pkg/policy/engine"
)

// State is a ticket's position in the review lifecycle.
type State string

const (
	// StatePending means the ticket awaits a reviewer.
	StatePending State = "pending"

	// StateInReview means a reviewer has claimed the ticket.
	StateInReview State = "in_review"

	// StateResolved means a reviewer recorded a final action.
	StateResolved State = "resolved"

	// StateExpired means the SLA deadline passed before resolution. The
	// ticket remains claimable; Expired marks the breach, it does not lock
	// the ticket.
	StateExpired State = "expired"
)

// Valid reports whether the state is one of the defined lifecycle states.
func (s State) Valid() bool {
	switch s {
	case StatePending, StateInReview, StateResolved, StateExpired:
		return true
	}
	return false
}

// Ticket is a unit of human-review work spawned from an Escalate decision.
// Tickets are mutated only through queue operations and are never deleted.
type Ticket struct {
	// ID uniquely identifies the ticket.
	ID string `json:"ticket_id"`

	// DecisionRef is the event ID of the decision under review.
	DecisionRef string `json:"decision_ref"`

	// Queue names the review queue the ticket was routed to.
	Queue string `json:"queue"`

	// Reason carries the decision's explanation for reviewers.
	Reason string `json:"reason"`

	// State is the current lifecycle state.
	State State `json:"queue_state"`

	// CreatedAt is when the ticket was enqueued.
	CreatedAt time.Time `json:"created_at"`

	// SLADeadline is CreatedAt plus the configured review SLA.
	SLADeadline time.Time `json:"sla_deadline"`

	// SLABreached is set when the deadline passes before resolution and
	// stays set for reporting even if the ticket is later resolved.
	SLABreached bool `json:"sla_breached"`

	// ResolverID identifies the reviewer who claimed the ticket.
	ResolverID string `json:"resolver_id,omitempty"`

	// ClaimedAt is when the ticket was claimed.
	ClaimedAt *time.Time `json:"claimed_at,omitempty"`

	// ResolvedAt is when the ticket was resolved.
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	// ResolutionAction is the reviewer's final action.
	ResolutionAction engine.Action `json:"resolution_action,omitempty"`
}

// Overdue reports whether the ticket's deadline has passed without
// resolution.
func (t *Ticket) Overdue(now time.Time) bool {
	if t.State == StateResolved {
		return false
	}
	return now.After(t.SLADeadline)
}

// clone returns a copy safe to hand to callers.
func (t *Ticket) clone() *Ticket {
	c := *t
	if t.ClaimedAt != nil {
		claimed := *t.ClaimedAt
		c.ClaimedAt = &claimed
	}
	if t.ResolvedAt != nil {
		resolved := *t.ResolvedAt
		c.ResolvedAt = &resolved
	}
	return &c
}
