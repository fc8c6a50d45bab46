package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"sentra-hq/minerva/pkg/classifier"
	"sentra-hq/minerva/pkg/event"
	"sentra-hq/minerva/pkg/policy"
)

// Decide evaluates a score set against the tier's thresholds and returns the
// enforcement decision, stamped with the current time.
//
// For replay and testing use DecideAt, which takes the decision timestamp
// explicitly; all decision content other than the timestamp is a pure
// function of (eventID, scores, tier, config).
func Decide(eventID string, scores classifier.ScoreSet, tier event.Tier, cfg *policy.ThresholdConfig) *Decision {
	return DecideAt(eventID, scores, tier, cfg, time.Now().UTC())
}

// DecideAt is the deterministic decision core.
//
// Algorithm:
//  1. ASL triggers are checked first, independently of tier. Any category at
//     or above a trigger confidence escalates, regardless of what the tier's
//     thresholds would select.
//  2. Otherwise any category at or above the tier's block threshold blocks.
//  3. Otherwise any category inside its redact band redacts.
//  4. Otherwise the event is allowed.
//
// When several categories cross the winning precedence band, all of them are
// recorded and the reason names each one; the action itself is taken once.
//
// An unknown tier resolves to the most restrictive configured tier and the
// reason carries a fallback warning: unknown callers never get a more
// permissive policy than the strictest known one.
func DecideAt(eventID string, scores classifier.ScoreSet, tier event.Tier, cfg *policy.ThresholdConfig, at time.Time) *Decision {
	thresholds, known := cfg.TierThresholds(tier)
	effectiveTier := tier
	if !known {
		effectiveTier = cfg.MostRestrictiveTier()
		thresholds, _ = cfg.TierThresholds(effectiveTier)
	}

	// Deterministic iteration order.
	cats := scores.Categories()
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	type hit struct {
		category classifier.RiskCategory
		score    float64
		detail   string
	}

	var (
		escalations []hit
		blocks      []hit
		redactions  []hit
		aslSeverity string
	)

	for _, cat := range cats {
		confidence := scores.Confidence(cat)

		for _, trigger := range cfg.TriggersFor(cat) {
			if confidence >= trigger.Confidence {
				escalations = append(escalations, hit{
					category: cat,
					score:    confidence,
					detail: fmt.Sprintf("%s capability trigger %s breached (%.2f >= %.2f)",
						trigger.Severity, cat, confidence, trigger.Confidence),
				})
				if severityHigher(trigger.Severity, aslSeverity) {
					aslSeverity = trigger.Severity
				}
				break
			}
		}

		if threshold, ok := thresholds[cat]; ok && confidence >= threshold {
			blocks = append(blocks, hit{
				category: cat,
				score:    confidence,
				detail: fmt.Sprintf("%s risk %.2f exceeded %s threshold %.2f",
					cat, confidence, effectiveTier, threshold),
			})
		}

		if band, ok := cfg.RedactBands[cat]; ok && band.Contains(confidence) {
			redactions = append(redactions, hit{
				category: cat,
				score:    confidence,
				detail: fmt.Sprintf("%s risk %.2f within redact band [%.2f,%.2f)",
					cat, confidence, band.Low, band.High),
			})
		}
	}

	var (
		action  Action
		winners []hit
	)
	switch {
	case len(escalations) > 0:
		action, winners = ActionEscalate, escalations
	case len(blocks) > 0:
		action, winners = ActionBlock, blocks
	case len(redactions) > 0:
		action, winners = ActionRedact, redactions
	default:
		action = ActionAllow
	}

	decision := &Decision{
		EventID:       eventID,
		Action:        action,
		Tier:          string(tier),
		ASLTriggered:  len(escalations) > 0,
		ASLSeverity:   aslSeverity,
		PolicyVersion: cfg.Version,
		Timestamp:     at,
		Scores:        snapshotScores(scores),
	}

	details := make([]string, 0, len(winners))
	for _, w := range winners {
		decision.TriggeredCategories = append(decision.TriggeredCategories, string(w.category))
		details = append(details, w.detail)
	}

	switch {
	case action == ActionAllow:
		decision.Reason = "no policy thresholds exceeded"
	default:
		decision.Reason = strings.Join(details, "; ")
	}

	if !known {
		decision.Reason = fmt.Sprintf(
			"warning: unknown tier %q, applied most restrictive tier %q thresholds; %s",
			tier, effectiveTier, decision.Reason)
	}

	return decision
}

// severityHigher reports whether severity a outranks b. ASL severities carry
// a numeric level after the final underscore (asl_3, asl_4); levels compare
// numerically so asl_10 outranks asl_3. Labels without a parseable level
// rank below any numbered one and fall back to string comparison among
// themselves.
func severityHigher(a, b string) bool {
	if b == "" {
		return true
	}
	ra, rb := severityRank(a), severityRank(b)
	if ra != rb {
		return ra > rb
	}
	return a > b
}

func severityRank(severity string) int {
	idx := strings.LastIndexByte(severity, '_')
	if idx < 0 || idx == len(severity)-1 {
		return -1
	}
	level, err := strconv.Atoi(severity[idx+1:])
	if err != nil {
		return -1
	}
	return level
}

// snapshotScores copies the per-category confidences for the audit record.
func snapshotScores(scores classifier.ScoreSet) map[classifier.RiskCategory]float64 {
	snapshot := make(map[classifier.RiskCategory]float64, len(scores))
	for cat, score := range scores {
		snapshot[cat] = score.Confidence
	}
	return snapshot
}
