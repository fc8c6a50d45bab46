package decisionlog

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the decision log schema.
const Schema = `
-- Decision records table
CREATE TABLE IF NOT EXISTS decisions (
    event_id TEXT NOT NULL,
    action TEXT NOT NULL,
    tier TEXT NOT NULL,
    triggered_categories TEXT,
    asl_triggered BOOLEAN NOT NULL,
    asl_severity TEXT,
    policy_version TEXT NOT NULL,
    reason TEXT NOT NULL,
    timestamp TIMESTAMP NOT NULL,
    scores TEXT
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_decisions_timestamp ON decisions(timestamp);
CREATE INDEX IF NOT EXISTS idx_decisions_action ON decisions(action);
CREATE INDEX IF NOT EXISTS idx_decisions_tier ON decisions(tier);
CREATE INDEX IF NOT EXISTS idx_decisions_event_id ON decisions(event_id);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
