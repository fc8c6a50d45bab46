// Package escalation implements the human-review queue for escalated
// decisions.
//
// Each Escalate decision spawns exactly one ticket. A ticket moves through an
// explicit state machine:
//
//	Pending --claim--> InReview --resolve--> Resolved
//	Pending|InReview --deadline passes--> Expired
//
// Expiry is detected by a periodic sweep, never by blocking waits, and only
// marks the SLA breach for reporting: an Expired ticket can still be claimed
// and resolved. Tickets are never destroyed; resolved and expired tickets are
// retained for audit.
//
// State transitions are guarded by per-ticket mutual exclusion, so two
// concurrent claims on the same ticket yield exactly one success.
package escalation
