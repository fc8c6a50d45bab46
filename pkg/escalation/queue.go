package escalation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"sentra-hq/minerva/pkg/policy/engine"
)

// MetricsRecorder receives ticket lifecycle observations. The telemetry
// collector satisfies it; a nil recorder disables recording.
type MetricsRecorder interface {
	// RecordTicketEvent counts a lifecycle transition: "enqueued",
	// "claimed", "resolved", or "expired".
	RecordTicketEvent(event string)

	// RecordSLABreach counts a ticket crossing its SLA deadline.
	RecordSLABreach()
}

// QueueConfig configures the review queue.
type QueueConfig struct {
	// Name is the queue name stamped on tickets.
	// Default: "safety_review"
	Name string

	// SLA is the review deadline measured from ticket creation.
	// Default: 24 hours
	SLA time.Duration

	// Store is an optional durable write-through backend. When nil the
	// queue is memory-only.
	Store TicketStore

	// Logger is the structured logger. Defaults to slog.Default.
	Logger *slog.Logger

	// Metrics receives ticket lifecycle observations. Optional.
	Metrics MetricsRecorder
}

// DefaultQueueConfig returns a QueueConfig with default values.
func DefaultQueueConfig() *QueueConfig {
	return &QueueConfig{
		Name: "safety_review",
		SLA:  24 * time.Hour,
	}
}

// Queue is the in-process review queue. The in-memory ticket map is
// authoritative; the optional store receives every transition for durability
// and audit.
type Queue struct {
	config *QueueConfig
	logger *slog.Logger

	mu      sync.RWMutex
	tickets map[string]*ticketEntry
}

// ticketEntry pairs a ticket with its own lock so transitions on different
// tickets never contend.
type ticketEntry struct {
	mu     sync.Mutex
	ticket *Ticket
}

// NewQueue creates a review queue.
func NewQueue(config *QueueConfig) *Queue {
	if config == nil {
		config = DefaultQueueConfig()
	}
	if config.Name == "" {
		config.Name = "safety_review"
	}
	if config.SLA == 0 {
		config.SLA = 24 * time.Hour
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Queue{
		config:  config,
		logger:  logger.With("component", "escalation-queue"),
		tickets: make(map[string]*ticketEntry),
	}
}

// Restore loads all tickets from the configured store into memory. Call once
// at startup, before serving traffic.
func (q *Queue) Restore(ctx context.Context) (int, error) {
	if q.config.Store == nil {
		return 0, nil
	}

	tickets, err := q.config.Store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to restore tickets: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	for _, ticket := range tickets {
		q.tickets[ticket.ID] = &ticketEntry{ticket: ticket.clone()}
	}
	return len(tickets), nil
}

// Enqueue creates a ticket for an escalated decision. Every call creates
// exactly one new ticket.
func (q *Queue) Enqueue(ctx context.Context, decision *engine.Decision) (*Ticket, error) {
	if decision == nil {
		return nil, fmt.Errorf("decision cannot be nil")
	}

	now := time.Now().UTC()
	ticket := &Ticket{
		ID:          uuid.NewString(),
		DecisionRef: decision.EventID,
		Queue:       q.config.Name,
		Reason:      decision.Reason,
		State:       StatePending,
		CreatedAt:   now,
		SLADeadline: now.Add(q.config.SLA),
	}

	q.mu.Lock()
	q.tickets[ticket.ID] = &ticketEntry{ticket: ticket}
	q.mu.Unlock()

	q.persist(ctx, ticket)
	q.record("enqueued")
	q.logger.Info("ticket enqueued",
		"ticket_id", ticket.ID,
		"decision_ref", ticket.DecisionRef,
		"sla_deadline", ticket.SLADeadline)

	return ticket.clone(), nil
}

// Claim assigns a ticket to a reviewer. Claiming is first-come-first-served:
// of two concurrent claims on the same ticket exactly one succeeds and the
// other receives an AlreadyClaimed error. Expired tickets remain claimable.
func (q *Queue) Claim(ctx context.Context, ticketID, resolverID string) (*Ticket, error) {
	if resolverID == "" {
		return nil, fmt.Errorf("resolver ID cannot be empty")
	}

	entry, ok := q.lookup(ticketID)
	if !ok {
		return nil, NewQueueStateError(CodeNotFound, ticketID, "claim", "")
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	ticket := entry.ticket
	switch ticket.State {
	case StatePending, StateExpired:
		// Expired only marks the breach; the ticket stays workable.
	case StateInReview:
		return nil, NewQueueStateError(CodeAlreadyClaimed, ticketID, "claim", ticket.State)
	default:
		return nil, NewQueueStateError(CodeInvalidState, ticketID, "claim", ticket.State)
	}

	now := time.Now().UTC()
	ticket.State = StateInReview
	ticket.ResolverID = resolverID
	ticket.ClaimedAt = &now

	q.persist(ctx, ticket)
	q.record("claimed")
	q.logger.Info("ticket claimed", "ticket_id", ticketID, "resolver_id", resolverID)

	return ticket.clone(), nil
}

// Resolve records the reviewer's final action on a claimed ticket. An
// Expired ticket may be resolved directly; a Pending one must be claimed
// first.
func (q *Queue) Resolve(ctx context.Context, ticketID string, action engine.Action) (*Ticket, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("invalid resolution action %q", action)
	}

	entry, ok := q.lookup(ticketID)
	if !ok {
		return nil, NewQueueStateError(CodeNotFound, ticketID, "resolve", "")
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	ticket := entry.ticket
	switch ticket.State {
	case StateInReview, StateExpired:
	default:
		return nil, NewQueueStateError(CodeInvalidState, ticketID, "resolve", ticket.State)
	}

	now := time.Now().UTC()
	ticket.State = StateResolved
	ticket.ResolvedAt = &now
	ticket.ResolutionAction = action

	q.persist(ctx, ticket)
	q.record("resolved")
	q.logger.Info("ticket resolved",
		"ticket_id", ticketID,
		"resolution_action", string(action),
		"sla_breached", ticket.SLABreached)

	return ticket.clone(), nil
}

// Get returns a copy of the ticket with the given ID.
func (q *Queue) Get(_ context.Context, ticketID string) (*Ticket, error) {
	entry, ok := q.lookup(ticketID)
	if !ok {
		return nil, NewQueueStateError(CodeNotFound, ticketID, "get", "")
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.ticket.clone(), nil
}

// ListPending returns unresolved tickets awaiting a reviewer (Pending and
// Expired), oldest first.
func (q *Queue) ListPending(ctx context.Context) ([]*Ticket, error) {
	return q.List(ctx, StatePending, StateExpired)
}

// List returns tickets in the given states, oldest first. An empty state
// list returns all tickets.
func (q *Queue) List(_ context.Context, states ...State) ([]*Ticket, error) {
	want := make(map[State]bool, len(states))
	for _, st := range states {
		want[st] = true
	}

	q.mu.RLock()
	entries := make([]*ticketEntry, 0, len(q.tickets))
	for _, entry := range q.tickets {
		entries = append(entries, entry)
	}
	q.mu.RUnlock()

	var out []*Ticket
	for _, entry := range entries {
		entry.mu.Lock()
		if len(want) == 0 || want[entry.ticket.State] {
			out = append(out, entry.ticket.clone())
		}
		entry.mu.Unlock()
	}
	sortTickets(out)
	return out, nil
}

// ExpireOverdue transitions every Pending or InReview ticket whose deadline
// precedes now into Expired and marks the SLA breach. The sweep is
// idempotent and stops between tickets when ctx is cancelled; a partial
// sweep is picked up by the next run.
func (q *Queue) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	q.mu.RLock()
	entries := make([]*ticketEntry, 0, len(q.tickets))
	for _, entry := range q.tickets {
		entries = append(entries, entry)
	}
	q.mu.RUnlock()

	expired := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return expired, err
		}

		entry.mu.Lock()
		ticket := entry.ticket
		if (ticket.State == StatePending || ticket.State == StateInReview) && now.After(ticket.SLADeadline) {
			ticket.State = StateExpired
			ticket.SLABreached = true
			q.persist(ctx, ticket)
			q.record("expired")
			if q.config.Metrics != nil {
				q.config.Metrics.RecordSLABreach()
			}
			q.logger.Warn("ticket expired",
				"ticket_id", ticket.ID,
				"decision_ref", ticket.DecisionRef,
				"sla_deadline", ticket.SLADeadline)
			expired++
		}
		entry.mu.Unlock()
	}
	return expired, nil
}

// StateCounts returns the number of tickets per state.
func (q *Queue) StateCounts() map[State]int {
	q.mu.RLock()
	entries := make([]*ticketEntry, 0, len(q.tickets))
	for _, entry := range q.tickets {
		entries = append(entries, entry)
	}
	q.mu.RUnlock()

	counts := make(map[State]int)
	for _, entry := range entries {
		entry.mu.Lock()
		counts[entry.ticket.State]++
		entry.mu.Unlock()
	}
	return counts
}

func (q *Queue) record(event string) {
	if q.config.Metrics != nil {
		q.config.Metrics.RecordTicketEvent(event)
	}
}

func (q *Queue) lookup(ticketID string) (*ticketEntry, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	entry, ok := q.tickets[ticketID]
	return entry, ok
}

// persist writes the ticket through to the store. Persistence failures are
// logged, not returned: the in-memory state is authoritative and the next
// transition retries the write.
func (q *Queue) persist(ctx context.Context, ticket *Ticket) {
	if q.config.Store == nil {
		return
	}
	if err := q.config.Store.Save(ctx, ticket.clone()); err != nil {
		q.logger.Error("failed to persist ticket",
			"ticket_id", ticket.ID,
			"error", err)
	}
}

func sortTickets(tickets []*Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		if tickets[i].CreatedAt.Equal(tickets[j].CreatedAt) {
			return tickets[i].ID < tickets[j].ID
		}
		return tickets[i].CreatedAt.Before(tickets[j].CreatedAt)
	})
}
