package decisionlog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"sentra-hq/minerva/pkg/policy/engine"
)

// MemoryStorage is an in-memory decision log for tests and ephemeral runs.
type MemoryStorage struct {
	mu        sync.RWMutex
	decisions []*engine.Decision
}

// NewMemoryStorage creates an empty in-memory log.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Append records a decision.
func (s *MemoryStorage) Append(_ context.Context, decision *engine.Decision) error {
	if decision == nil {
		return NewStorageError("memory", "append", fmt.Errorf("decision cannot be nil"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions = append(s.decisions, decision.Clone())
	return nil
}

// Query returns decisions matching the filters, newest first.
func (s *MemoryStorage) Query(_ context.Context, query *Query) ([]*engine.Decision, error) {
	if query == nil {
		query = &Query{}
	}

	s.mu.RLock()
	matched := make([]*engine.Decision, 0)
	for _, d := range s.decisions {
		if query.matches(d) {
			matched = append(matched, d.Clone())
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	if query.Offset > 0 {
		if query.Offset >= len(matched) {
			return []*engine.Decision{}, nil
		}
		matched = matched[query.Offset:]
	}
	limit := query.Limit
	if limit == 0 {
		limit = DefaultQueryLimit
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Count returns the number of matching decisions.
func (s *MemoryStorage) Count(_ context.Context, query *Query) (int, error) {
	if query == nil {
		query = &Query{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, d := range s.decisions {
		if query.matches(d) {
			count++
		}
	}
	return count, nil
}

// Close implements Storage.
func (s *MemoryStorage) Close() error { return nil }
