package escalation

import "context"

// TicketStore persists tickets. The queue holds the authoritative in-memory
// state and writes through to the store on every transition; the store is the
// durable audit record and the recovery source after a restart.
type TicketStore interface {
	// Save inserts or replaces a ticket by ID.
	Save(ctx context.Context, ticket *Ticket) error

	// Get returns the ticket with the given ID, or a CodeNotFound error.
	Get(ctx context.Context, id string) (*Ticket, error)

	// List returns tickets in the given states, oldest first. An empty
	// state list returns all tickets.
	List(ctx context.Context, states ...State) ([]*Ticket, error)

	// Close releases store resources.
	Close() error
}
