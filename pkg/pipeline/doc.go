// Package pipeline wires the decision core together: classification, policy
// decision, decision logging and escalation, driven by a worker pool over
// event batches.
//
// Events are independent, so the batch fans out across workers and no event
// blocks another. Per-item failures (malformed events) are returned alongside
// successes and never abort the batch. Every accepted event yields exactly
// one decision, and every Escalate decision spawns exactly one ticket.
package pipeline
