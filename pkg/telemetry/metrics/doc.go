// Package metrics exposes Prometheus metrics for the decision pipeline and
// the escalation queue.
//
// All metrics live under the configured namespace/subsystem (default
// sentra_minerva_*). The Collector owns a private registry; expose it with
// Handler for scraping.
package metrics
