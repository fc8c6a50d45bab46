package escalation

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"sentra-hq/minerva/pkg/policy/engine"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "tickets.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestSQLiteStore_SaveAndGet tests the persistence round trip.
func TestSQLiteStore_SaveAndGet(t *testing.T) {
	store := newTestSQLiteStore(t)

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	claimed := created.Add(time.Hour)
	ticket := &Ticket{
		ID:          "tkt-1",
		DecisionRef: "evt-1",
		Queue:       "safety_review",
		Reason:      "cbrn capability trigger asl_3 breached (0.25 >= 0.20)",
		State:       StateInReview,
		CreatedAt:   created,
		SLADeadline: created.Add(24 * time.Hour),
		ResolverID:  "reviewer-a",
		ClaimedAt:   &claimed,
	}

	if err := store.Save(context.Background(), ticket); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := store.Get(context.Background(), "tkt-1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.State != StateInReview || got.ResolverID != "reviewer-a" {
		t.Errorf("Get() = %+v, want in_review by reviewer-a", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if got.ClaimedAt == nil || !got.ClaimedAt.Equal(claimed) {
		t.Errorf("ClaimedAt = %v, want %v", got.ClaimedAt, claimed)
	}
	if got.ResolvedAt != nil {
		t.Errorf("ResolvedAt = %v, want nil", got.ResolvedAt)
	}
}

// TestSQLiteStore_SaveUpdatesExisting tests the upsert path.
func TestSQLiteStore_SaveUpdatesExisting(t *testing.T) {
	store := newTestSQLiteStore(t)

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ticket := &Ticket{
		ID:          "tkt-1",
		DecisionRef: "evt-1",
		Queue:       "safety_review",
		State:       StatePending,
		CreatedAt:   created,
		SLADeadline: created.Add(24 * time.Hour),
	}
	if err := store.Save(context.Background(), ticket); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	resolved := created.Add(2 * time.Hour)
	ticket.State = StateResolved
	ticket.SLABreached = true
	ticket.ResolvedAt = &resolved
	ticket.ResolutionAction = engine.ActionBlock
	if err := store.Save(context.Background(), ticket); err != nil {
		t.Fatalf("second Save() failed: %v", err)
	}

	got, err := store.Get(context.Background(), "tkt-1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.State != StateResolved || !got.SLABreached {
		t.Errorf("Get() = %+v, want resolved with breach flag", got)
	}
	if got.ResolutionAction != engine.ActionBlock {
		t.Errorf("ResolutionAction = %q, want block", got.ResolutionAction)
	}
}

// TestSQLiteStore_GetMissing tests the not-found status.
func TestSQLiteStore_GetMissing(t *testing.T) {
	store := newTestSQLiteStore(t)

	if _, err := store.Get(context.Background(), "no-such-ticket"); !IsNotFound(err) {
		t.Errorf("Get(missing) = %v, want NotFound", err)
	}
}

// TestSQLiteStore_ListByState tests filtered listing.
func TestSQLiteStore_ListByState(t *testing.T) {
	store := newTestSQLiteStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	states := []State{StatePending, StateExpired, StateResolved}
	for i, state := range states {
		ticket := &Ticket{
			ID:          string(rune('a' + i)),
			DecisionRef: "evt",
			Queue:       "safety_review",
			State:       state,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			SLADeadline: base.Add(24 * time.Hour),
		}
		if err := store.Save(context.Background(), ticket); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
	}

	open, err := store.List(context.Background(), StatePending, StateExpired)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("len(open) = %d, want 2", len(open))
	}
	if open[0].ID != "a" || open[1].ID != "b" {
		t.Errorf("order = [%s %s], want oldest first [a b]", open[0].ID, open[1].ID)
	}

	all, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}
}
