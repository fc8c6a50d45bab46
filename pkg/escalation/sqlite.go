package escalation

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"sentra-hq/minerva/pkg/policy/engine"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore implements TicketStore using SQLite for persistence. It is
// suitable for single-instance deployments where the review backlog must
// survive restarts.
//
// SQLiteStore uses a write-ahead log (WAL) for better concurrent performance.
type SQLiteStore struct {
	db        *sql.DB
	mu        sync.RWMutex
	closeOnce sync.Once

	saveStmt *sql.Stmt
	getStmt  *sql.Stmt
}

// SQLiteStoreConfig configures the SQLite ticket store.
type SQLiteStoreConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteStore creates a SQLite ticket store with default settings.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(SQLiteStoreConfig{DBPath: dbPath})
}

// NewSQLiteStoreWithConfig creates a SQLite ticket store with custom
// configuration.
func NewSQLiteStoreWithConfig(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tickets (
		ticket_id         TEXT PRIMARY KEY,
		decision_ref      TEXT NOT NULL,
		queue             TEXT NOT NULL,
		reason            TEXT NOT NULL,
		state             TEXT NOT NULL,
		created_at        INTEGER NOT NULL,
		sla_deadline      INTEGER NOT NULL,
		sla_breached      INTEGER NOT NULL DEFAULT 0,
		resolver_id       TEXT,
		claimed_at        INTEGER,
		resolved_at       INTEGER,
		resolution_action TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_tickets_state ON tickets(state);
	CREATE INDEX IF NOT EXISTS idx_tickets_deadline ON tickets(sla_deadline);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO tickets (ticket_id, decision_ref, queue, reason, state,
			created_at, sla_deadline, sla_breached, resolver_id,
			claimed_at, resolved_at, resolution_action)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (ticket_id) DO UPDATE SET
			state = excluded.state,
			sla_breached = excluded.sla_breached,
			resolver_id = excluded.resolver_id,
			claimed_at = excluded.claimed_at,
			resolved_at = excluded.resolved_at,
			resolution_action = excluded.resolution_action
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.getStmt, err = s.db.Prepare(`
		SELECT ticket_id, decision_ref, queue, reason, state, created_at,
			sla_deadline, sla_breached, resolver_id, claimed_at,
			resolved_at, resolution_action
		FROM tickets
		WHERE ticket_id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	return nil
}

// Save inserts or replaces a ticket.
func (s *SQLiteStore) Save(ctx context.Context, ticket *Ticket) error {
	if ticket == nil {
		return fmt.Errorf("ticket cannot be nil")
	}
	if ticket.ID == "" {
		return fmt.Errorf("ticket ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.saveStmt.ExecContext(ctx,
		ticket.ID,
		ticket.DecisionRef,
		ticket.Queue,
		ticket.Reason,
		string(ticket.State),
		ticket.CreatedAt.Unix(),
		ticket.SLADeadline.Unix(),
		boolToInt(ticket.SLABreached),
		nullString(ticket.ResolverID),
		nullTime(ticket.ClaimedAt),
		nullTime(ticket.ResolvedAt),
		nullString(string(ticket.ResolutionAction)),
	)
	if err != nil {
		return fmt.Errorf("failed to save ticket: %w", err)
	}
	return nil
}

// Get returns the ticket with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticket, err := scanTicket(s.getStmt.QueryRowContext(ctx, id))
	if err == sql.ErrNoRows {
		return nil, NewQueueStateError(CodeNotFound, id, "get", "")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}
	return ticket, nil
}

// List returns tickets in the given states, oldest first.
func (s *SQLiteStore) List(ctx context.Context, states ...State) ([]*Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT ticket_id, decision_ref, queue, reason, state, created_at,
			sla_deadline, sla_breached, resolver_id, claimed_at,
			resolved_at, resolution_action
		FROM tickets`
	var args []any
	if len(states) > 0 {
		placeholders := make([]string, len(states))
		for i, st := range states {
			placeholders[i] = "?"
			args = append(args, string(st))
		}
		query += " WHERE state IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY created_at ASC, ticket_id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return tickets, nil
}

// Close releases store resources. Close is idempotent.
func (s *SQLiteStore) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		if s.saveStmt != nil {
			s.saveStmt.Close()
		}
		if s.getStmt != nil {
			s.getStmt.Close()
		}
		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*Ticket, error) {
	var (
		ticket     Ticket
		state      string
		createdAt  int64
		deadline   int64
		breached   int
		resolver   sql.NullString
		claimedAt  sql.NullInt64
		resolvedAt sql.NullInt64
		resolution sql.NullString
	)

	err := row.Scan(
		&ticket.ID,
		&ticket.DecisionRef,
		&ticket.Queue,
		&ticket.Reason,
		&state,
		&createdAt,
		&deadline,
		&breached,
		&resolver,
		&claimedAt,
		&resolvedAt,
		&resolution,
	)
	if err != nil {
		return nil, err
	}

	ticket.State = State(state)
	ticket.CreatedAt = time.Unix(createdAt, 0).UTC()
	ticket.SLADeadline = time.Unix(deadline, 0).UTC()
	ticket.SLABreached = breached != 0
	if resolver.Valid {
		ticket.ResolverID = resolver.String
	}
	if claimedAt.Valid {
		claimed := time.Unix(claimedAt.Int64, 0).UTC()
		ticket.ClaimedAt = &claimed
	}
	if resolvedAt.Valid {
		resolved := time.Unix(resolvedAt.Int64, 0).UTC()
		ticket.ResolvedAt = &resolved
	}
	if resolution.Valid {
		ticket.ResolutionAction = engine.Action(resolution.String)
	}
	return &ticket, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}
