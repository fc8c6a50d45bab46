package decisionlog

import (
	"context"
	"time"

	"sentra-hq/minerva/pkg/policy/engine"
)

// Query selects decisions from the log. Zero-valued fields do not filter.
type Query struct {
	// Since includes decisions with Timestamp >= Since.
	Since time.Time

	// Until includes decisions with Timestamp < Until.
	Until time.Time

	// Tier filters by the tier recorded on the decision.
	Tier string

	// Category filters to decisions whose triggered categories include
	// this category.
	Category string

	// Action filters by the decided action.
	Action engine.Action

	// ASLOnly restricts to decisions where a capability trigger fired.
	ASLOnly bool

	// Limit caps the number of returned decisions. Zero applies
	// DefaultQueryLimit; a negative value disables the cap.
	Limit int

	// Offset skips the first N matching decisions, newest first.
	Offset int
}

// DefaultQueryLimit caps unbounded queries.
const DefaultQueryLimit = 1000

// Storage is the append-only decision log backend.
type Storage interface {
	// Append records a decision. Records are immutable once written.
	Append(ctx context.Context, decision *engine.Decision) error

	// Query returns decisions matching the filters, newest first. The
	// result is a consistent snapshot of the log at call time.
	Query(ctx context.Context, query *Query) ([]*engine.Decision, error)

	// Count returns the number of decisions matching the filters,
	// ignoring Limit and Offset.
	Count(ctx context.Context, query *Query) (int, error)

	// Close releases backend resources.
	Close() error
}

// matches reports whether a decision passes the query's filters.
func (q *Query) matches(d *engine.Decision) bool {
	if !q.Since.IsZero() && d.Timestamp.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && !d.Timestamp.Before(q.Until) {
		return false
	}
	if q.Tier != "" && d.Tier != q.Tier {
		return false
	}
	if q.Action != "" && d.Action != q.Action {
		return false
	}
	if q.ASLOnly && !d.ASLTriggered {
		return false
	}
	if q.Category != "" {
		found := false
		for _, cat := range d.TriggeredCategories {
			if cat == q.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
