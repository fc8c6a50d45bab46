// Package decisionlog persists every policy decision for audit and
// compliance reporting.
//
// The log is append-only: decisions are written once at evaluation time and
// never mutated. Queries filter by time window, tier, risk category and
// action, and a single Query call returns a consistent snapshot so
// aggregations over its result set add up.
//
// Two backends are provided: an in-memory store for tests and a SQLite store
// for durable single-instance deployments.
package decisionlog
