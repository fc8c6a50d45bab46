// Package telemetry groups minerva's observability subsystems: structured
// logging with PII redaction (logging) and Prometheus metrics (metrics).
package telemetry
