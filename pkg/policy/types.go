package policy

import (
	"sort"

	"sentra-hq/minerva/pkg/classifier"
	"sentra-hq/minerva/pkg/event"
)

// Band is a half-open confidence interval [Low, High) that maps to the
// Redact action when no higher-precedence action fires.
type Band struct {
	Low  float64 `yaml:"low" json:"low"`
	High float64 `yaml:"high" json:"high"`
}

// Contains reports whether the confidence falls inside the band.
func (b Band) Contains(confidence float64) bool {
	return confidence >= b.Low && confidence < b.High
}

// ASLTrigger is a capability-level confidence threshold. A breach mandates
// escalation regardless of access tier: capability signals are properties of
// the model, not of who is calling it.
type ASLTrigger struct {
	// Category the trigger watches.
	Category classifier.RiskCategory `yaml:"category" json:"category"`

	// Confidence is the trigger threshold; a score at or above it fires.
	Confidence float64 `yaml:"confidence" json:"confidence"`

	// Severity labels the capability level (e.g. "asl_3").
	Severity string `yaml:"severity" json:"severity"`

	// Description explains the capability concern for reviewers.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// EscalateAction is metadata attached to Escalate decisions.
type EscalateAction struct {
	// Queue names the review queue escalations are routed to.
	Queue string `yaml:"queue" json:"queue"`

	// SLAHours is the review deadline in hours from ticket creation.
	SLAHours int `yaml:"sla_hours" json:"sla_hours"`
}

// BlockAction is metadata attached to Block decisions.
type BlockAction struct {
	// Message is the user-facing block notice.
	Message string `yaml:"message" json:"message"`
}

// Actions holds per-action metadata.
type Actions struct {
	Block    BlockAction    `yaml:"block" json:"block"`
	Escalate EscalateAction `yaml:"escalate" json:"escalate"`
}

// ThresholdConfig is a versioned, immutable policy snapshot.
//
// Exactly one snapshot is active at a time; see Store. A snapshot must never
// be mutated after load.
type ThresholdConfig struct {
	// Version identifies this policy document for audit.
	Version string `yaml:"version" json:"version"`

	// Tiers maps tier -> category -> block threshold.
	Tiers map[event.Tier]map[classifier.RiskCategory]float64 `yaml:"tiers" json:"tiers"`

	// RedactBands maps category -> partial-risk band. Bands are
	// category-specific, shared across tiers.
	RedactBands map[classifier.RiskCategory]Band `yaml:"redact_bands,omitempty" json:"redact_bands,omitempty"`

	// ASLTriggers are the tier-independent capability triggers.
	ASLTriggers []ASLTrigger `yaml:"asl_triggers" json:"asl_triggers"`

	// Actions holds action metadata.
	Actions Actions `yaml:"actions" json:"actions"`
}

// Categories returns every category referenced by any tier, sorted.
func (c *ThresholdConfig) Categories() []classifier.RiskCategory {
	seen := make(map[classifier.RiskCategory]struct{})
	for _, thresholds := range c.Tiers {
		for cat := range thresholds {
			seen[cat] = struct{}{}
		}
	}

	cats := make([]classifier.RiskCategory, 0, len(seen))
	for cat := range seen {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// TierThresholds returns the block thresholds for the tier and whether the
// tier is present in the document.
func (c *ThresholdConfig) TierThresholds(tier event.Tier) (map[classifier.RiskCategory]float64, bool) {
	thresholds, ok := c.Tiers[tier]
	return thresholds, ok
}

// MostRestrictiveTier returns the configured tier with the lowest mean block
// threshold. Ties resolve to the lexicographically smaller tier name so the
// result is deterministic. Unknown tiers fall back to this tier's thresholds.
func (c *ThresholdConfig) MostRestrictiveTier() event.Tier {
	var (
		best     event.Tier
		bestMean float64
		found    bool
	)

	tiers := make([]event.Tier, 0, len(c.Tiers))
	for tier := range c.Tiers {
		tiers = append(tiers, tier)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] < tiers[j] })

	for _, tier := range tiers {
		thresholds := c.Tiers[tier]
		if len(thresholds) == 0 {
			continue
		}
		sum := 0.0
		for _, t := range thresholds {
			sum += t
		}
		mean := sum / float64(len(thresholds))
		if !found || mean < bestMean {
			best = tier
			bestMean = mean
			found = true
		}
	}

	return best
}

// TriggersFor returns the ASL triggers watching the given category.
func (c *ThresholdConfig) TriggersFor(cat classifier.RiskCategory) []ASLTrigger {
	var triggers []ASLTrigger
	for _, t := range c.ASLTriggers {
		if t.Category == cat {
			triggers = append(triggers, t)
		}
	}
	return triggers
}
