// Minerva is a policy decision core for AI interaction governance.
//
// It evaluates interaction events against tiered risk thresholds, providing:
//   - Multi-category risk classification with pluggable detectors
//   - Tier-aware allow/redact/block/escalate decisions with ASL capability triggers
//   - An SLA-bound escalation queue for human review
//   - An append-only decision log and ISO/IEC 42001 compliance reporting
//
// Usage:
//
//	# Evaluate a batch of events from a file
//	minerva evaluate events.json
//
//	# Stream events from stdin, one JSON object per line
//	minerva run < events.ndjson
//
//	# Validate a threshold document
//	minerva policy validate thresholds.yaml
//
//	# Inspect the escalation queue
//	minerva queue list --state pending
//
//	# Generate a compliance report for the last 30 days
//	minerva report --window-days 30 --format json
package main

func main() {
	Execute()
}
