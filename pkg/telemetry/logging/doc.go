// Package logging provides structured logging for minerva.
//
// The logger wraps log/slog with automatic PII redaction: interaction text
// and reviewer identifiers flow through decision logs, so values matching
// sensitive patterns (API keys, emails, bearer tokens) are replaced before
// they reach any handler. Context helpers carry event and ticket identifiers
// through the pipeline.
package logging
