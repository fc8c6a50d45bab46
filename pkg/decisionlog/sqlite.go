package decisionlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"sentra-hq/minerva/pkg/classifier"
	"sentra-hq/minerva/pkg/policy/engine"
)

// SQLiteConfig contains configuration for the SQLite decision log.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/decisions.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage creates a new SQLite decision log.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "decisionlog.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite decision log initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Append records a decision.
func (s *SQLiteStorage) Append(ctx context.Context, decision *engine.Decision) error {
	if decision == nil {
		return NewStorageError("sqlite", "append", fmt.Errorf("decision cannot be nil"))
	}

	categories, err := json.Marshal(decision.TriggeredCategories)
	if err != nil {
		return NewStorageError("sqlite", "append", fmt.Errorf("failed to encode triggered categories: %w", err))
	}
	scores, err := json.Marshal(decision.Scores)
	if err != nil {
		return NewStorageError("sqlite", "append", fmt.Errorf("failed to encode scores: %w", err))
	}

	query := `
		INSERT INTO decisions (
			event_id, action, tier, triggered_categories,
			asl_triggered, asl_severity, policy_version, reason,
			timestamp, scores
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		decision.EventID,
		string(decision.Action),
		decision.Tier,
		string(categories),
		decision.ASLTriggered,
		decision.ASLSeverity,
		decision.PolicyVersion,
		decision.Reason,
		decision.Timestamp.UTC(),
		string(scores),
	)
	if err != nil {
		return NewStorageError("sqlite", "append", err)
	}

	return nil
}

// Query returns decisions matching the filters, newest first. The single
// SELECT gives a consistent snapshot under SQLite's isolation.
func (s *SQLiteStorage) Query(ctx context.Context, query *Query) ([]*engine.Decision, error) {
	if query == nil {
		query = &Query{}
	}

	whereClause, args := buildWhereClause(query)

	sqlQuery := `
		SELECT event_id, action, tier, triggered_categories,
			asl_triggered, asl_severity, policy_version, reason,
			timestamp, scores
		FROM decisions`
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}
	sqlQuery += " ORDER BY timestamp DESC, event_id DESC"

	limit := query.Limit
	if limit == 0 {
		limit = DefaultQueryLimit
	}
	if limit < 0 {
		// SQLite treats a negative LIMIT as unbounded.
		limit = -1
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	if query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	decisions := []*engine.Decision{}
	for rows.Next() {
		decision, err := scanDecision(rows)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		decisions = append(decisions, decision)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}

	return decisions, nil
}

// Count returns the number of matching decisions.
func (s *SQLiteStorage) Count(ctx context.Context, query *Query) (int, error) {
	if query == nil {
		query = &Query{}
	}

	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT COUNT(*) FROM decisions"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}
	return nil
}

// buildWhereClause translates query filters into SQL.
func buildWhereClause(query *Query) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if !query.Since.IsZero() {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, query.Since.UTC())
	}
	if !query.Until.IsZero() {
		conditions = append(conditions, "timestamp < ?")
		args = append(args, query.Until.UTC())
	}
	if query.Tier != "" {
		conditions = append(conditions, "tier = ?")
		args = append(args, query.Tier)
	}
	if query.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, string(query.Action))
	}
	if query.ASLOnly {
		conditions = append(conditions, "asl_triggered = 1")
	}
	if query.Category != "" {
		// triggered_categories holds a JSON array of strings.
		conditions = append(conditions, "triggered_categories LIKE ?")
		args = append(args, fmt.Sprintf(`%%"%s"%%`, query.Category))
	}

	return strings.Join(conditions, " AND "), args
}

func scanDecision(rows *sql.Rows) (*engine.Decision, error) {
	var (
		decision   engine.Decision
		action     string
		categories sql.NullString
		severity   sql.NullString
		scores     sql.NullString
		timestamp  time.Time
	)

	err := rows.Scan(
		&decision.EventID,
		&action,
		&decision.Tier,
		&categories,
		&decision.ASLTriggered,
		&severity,
		&decision.PolicyVersion,
		&decision.Reason,
		&timestamp,
		&scores,
	)
	if err != nil {
		return nil, err
	}

	decision.Action = engine.Action(action)
	decision.Timestamp = timestamp.UTC()
	if severity.Valid {
		decision.ASLSeverity = severity.String
	}
	if categories.Valid && categories.String != "" && categories.String != "null" {
		if err := json.Unmarshal([]byte(categories.String), &decision.TriggeredCategories); err != nil {
			return nil, fmt.Errorf("failed to unmarshal triggered categories: %w", err)
		}
	}
	if scores.Valid && scores.String != "" && scores.String != "null" {
		decision.Scores = make(map[classifier.RiskCategory]float64)
		if err := json.Unmarshal([]byte(scores.String), &decision.Scores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
		}
	}

	return &decision, nil
}
