package escalation

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory TicketStore for tests and single-process runs
// where durability is not required.
type MemoryStore struct {
	mu      sync.RWMutex
	tickets map[string]*Ticket
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tickets: make(map[string]*Ticket)}
}

// Save inserts or replaces a ticket.
func (s *MemoryStore) Save(_ context.Context, ticket *Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[ticket.ID] = ticket.clone()
	return nil
}

// Get returns the ticket with the given ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, NewQueueStateError(CodeNotFound, id, "get", "")
	}
	return ticket.clone(), nil
}

// List returns tickets in the given states, oldest first.
func (s *MemoryStore) List(_ context.Context, states ...State) ([]*Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[State]bool, len(states))
	for _, st := range states {
		want[st] = true
	}

	var out []*Ticket
	for _, ticket := range s.tickets {
		if len(want) == 0 || want[ticket.State] {
			out = append(out, ticket.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Close implements TicketStore.
func (s *MemoryStore) Close() error { return nil }
