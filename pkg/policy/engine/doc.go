// Package engine converts risk scores into enforcement decisions.
//
// Decide is a pure function of its inputs: the same score set, tier, and
// threshold snapshot always produce the same decision, which makes decisions
// replayable and independently testable. Action precedence is explicit:
// Escalate > Block > Redact > Allow. ASL triggers are evaluated independently
// of tier and always dominate.
package engine
