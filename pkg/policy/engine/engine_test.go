package engine

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"sentra-hq/minerva/pkg/classifier"
	"sentra-hq/minerva/pkg/event"
	"sentra-hq/minerva/pkg/policy"
)

func scoreSet(confidences map[classifier.RiskCategory]float64) classifier.ScoreSet {
	set := make(classifier.ScoreSet, len(confidences))
	for cat, c := range confidences {
		set[cat] = classifier.Score{Category: cat, Confidence: c}
	}
	return set
}

var fixedTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// TestDecide_ASLTriggerDominatesBlock tests that a capability trigger wins
// even when the tier's block threshold is also exceeded.
func TestDecide_ASLTriggerDominatesBlock(t *testing.T) {
	cfg := policy.Default()
	scores := scoreSet(map[classifier.RiskCategory]float64{
		classifier.CategoryCBRN: 0.20,
	})

	// general: block threshold 0.15 exceeded AND asl trigger 0.20 reached.
	d := DecideAt("evt-1", scores, event.TierGeneral, cfg, fixedTime)

	if d.Action != ActionEscalate {
		t.Errorf("Action = %q, want %q", d.Action, ActionEscalate)
	}
	if !d.ASLTriggered {
		t.Error("ASLTriggered = false, want true")
	}
	if d.ASLSeverity != "asl_3" {
		t.Errorf("ASLSeverity = %q, want asl_3", d.ASLSeverity)
	}
	if len(d.TriggeredCategories) != 1 || d.TriggeredCategories[0] != "cbrn" {
		t.Errorf("TriggeredCategories = %v, want [cbrn]", d.TriggeredCategories)
	}
}

// TestDecide_ASLTriggerTierInvariant tests that the trigger fires identically
// for every tier, including tiers whose own thresholds would allow the event.
func TestDecide_ASLTriggerTierInvariant(t *testing.T) {
	cfg := policy.Default()
	scores := scoreSet(map[classifier.RiskCategory]float64{
		classifier.CategoryCBRN: 0.20,
	})

	for _, tier := range event.KnownTiers() {
		d := DecideAt("evt-1", scores, tier, cfg, fixedTime)
		if d.Action != ActionEscalate {
			t.Errorf("Tier %q: Action = %q, want %q", tier, d.Action, ActionEscalate)
		}
		if !d.ASLTriggered {
			t.Errorf("Tier %q: ASLTriggered = false, want true", tier)
		}
	}

	// research_sandbox block threshold is 0.25, so without the trigger this
	// score would be allowed there. The trigger must still escalate.
	d := DecideAt("evt-1", scores, event.TierResearchSandbox, cfg, fixedTime)
	if d.Action != ActionEscalate {
		t.Errorf("research_sandbox: Action = %q, want %q (ASL precedence)", d.Action, ActionEscalate)
	}
}

// TestDecide_BlockThreshold tests a plain tier-threshold block.
func TestDecide_BlockThreshold(t *testing.T) {
	cfg := policy.Default()
	scores := scoreSet(map[classifier.RiskCategory]float64{
		classifier.CategoryJailbreak: 0.35,
	})

	d := DecideAt("evt-1", scores, event.TierGeneral, cfg, fixedTime)
	if d.Action != ActionBlock {
		t.Errorf("Action = %q, want %q", d.Action, ActionBlock)
	}
	if d.ASLTriggered {
		t.Error("ASLTriggered = true, want false")
	}
	if !strings.Contains(d.Reason, "jailbreak") {
		t.Errorf("Reason %q does not name the triggering category", d.Reason)
	}
}

// TestDecide_RedactBand tests the category-specific partial-risk band.
func TestDecide_RedactBand(t *testing.T) {
	cfg := policy.Default()
	scores := scoreSet(map[classifier.RiskCategory]float64{
		classifier.CategorySelfHarm: 0.40,
	})

	// enterprise self_harm block threshold is 0.50; 0.40 sits inside the
	// [0.30,0.50) redact band.
	d := DecideAt("evt-1", scores, event.TierEnterprise, cfg, fixedTime)
	if d.Action != ActionRedact {
		t.Errorf("Action = %q, want %q", d.Action, ActionRedact)
	}
}

// TestDecide_RedactBandHalfOpen tests that the band's upper bound is
// exclusive: a score at the bound is not a redact.
func TestDecide_RedactBandHalfOpen(t *testing.T) {
	cfg := policy.Default()
	scores := scoreSet(map[classifier.RiskCategory]float64{
		classifier.CategorySelfHarm: 0.50,
	})

	// 0.50 is outside the band and at the enterprise block threshold.
	d := DecideAt("evt-1", scores, event.TierEnterprise, cfg, fixedTime)
	if d.Action != ActionBlock {
		t.Errorf("Action = %q, want %q", d.Action, ActionBlock)
	}
}

// TestDecide_Allow tests the no-risk path and that reason is never empty.
func TestDecide_Allow(t *testing.T) {
	cfg := policy.Default()
	scores := scoreSet(map[classifier.RiskCategory]float64{
		classifier.CategoryCBRN:      0.0,
		classifier.CategoryJailbreak: 0.05,
	})

	d := DecideAt("evt-1", scores, event.TierGeneral, cfg, fixedTime)
	if d.Action != ActionAllow {
		t.Errorf("Action = %q, want %q", d.Action, ActionAllow)
	}
	if d.Reason == "" {
		t.Error("Reason is empty, must always be human-readable")
	}
	if len(d.TriggeredCategories) != 0 {
		t.Errorf("TriggeredCategories = %v, want empty", d.TriggeredCategories)
	}
}

// TestDecide_UnknownTierFailsSafe tests fallback to the most restrictive
// configured tier with a warning in the reason.
func TestDecide_UnknownTierFailsSafe(t *testing.T) {
	cfg := policy.Default()
	scores := scoreSet(map[classifier.RiskCategory]float64{
		classifier.CategoryJailbreak: 0.35,
	})

	d := DecideAt("evt-1", scores, event.Tier("trial"), cfg, fixedTime)

	// general is the most restrictive tier; its jailbreak threshold (0.30)
	// blocks this score even though enterprise (0.45) would not.
	if d.Action != ActionBlock {
		t.Errorf("Action = %q, want %q under most restrictive fallback", d.Action, ActionBlock)
	}
	if !strings.Contains(d.Reason, "unknown tier") {
		t.Errorf("Reason %q missing fallback warning", d.Reason)
	}
	if d.Tier != "trial" {
		t.Errorf("Tier = %q, want original tier recorded", d.Tier)
	}
}

// TestDecide_Deterministic tests that identical inputs produce identical
// decisions.
func TestDecide_Deterministic(t *testing.T) {
	cfg := policy.Default()
	scores := scoreSet(map[classifier.RiskCategory]float64{
		classifier.CategoryCBRN:         0.22,
		classifier.CategorySelfHarm:     0.40,
		classifier.CategoryJailbreak:    0.61,
		classifier.CategoryExploitation: 0.52,
	})

	a := DecideAt("evt-1", scores, event.TierEnterprise, cfg, fixedTime)
	b := DecideAt("evt-1", scores, event.TierEnterprise, cfg, fixedTime)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("DecideAt not deterministic:\n a = %+v\n b = %+v", a, b)
	}
}

// TestDecide_TieRecordsAllCategories tests that every category crossing the
// winning band is recorded while the action is taken once.
func TestDecide_TieRecordsAllCategories(t *testing.T) {
	cfg := policy.Default()
	scores := scoreSet(map[classifier.RiskCategory]float64{
		classifier.CategoryJailbreak:    0.35,
		classifier.CategoryExploitation: 0.35,
	})

	d := DecideAt("evt-1", scores, event.TierGeneral, cfg, fixedTime)
	if d.Action != ActionBlock {
		t.Fatalf("Action = %q, want %q", d.Action, ActionBlock)
	}

	want := []string{"exploitation", "jailbreak"}
	if !reflect.DeepEqual(d.TriggeredCategories, want) {
		t.Errorf("TriggeredCategories = %v, want %v", d.TriggeredCategories, want)
	}
	for _, cat := range want {
		if !strings.Contains(d.Reason, cat) {
			t.Errorf("Reason %q missing category %q", d.Reason, cat)
		}
	}
}

// TestDecide_MonotonicTierOrdering tests that a tier with lower thresholds
// never produces a more permissive action than a tier with higher ones.
func TestDecide_MonotonicTierOrdering(t *testing.T) {
	cfg := policy.Default()

	// Scores chosen between the general and research_sandbox thresholds,
	// below any ASL trigger.
	for _, confidence := range []float64{0.10, 0.16, 0.19, 0.26, 0.31, 0.46, 0.59} {
		scores := scoreSet(map[classifier.RiskCategory]float64{
			classifier.CategoryJailbreak: confidence,
		})

		general := DecideAt("evt-1", scores, event.TierGeneral, cfg, fixedTime)
		enterprise := DecideAt("evt-1", scores, event.TierEnterprise, cfg, fixedTime)
		sandbox := DecideAt("evt-1", scores, event.TierResearchSandbox, cfg, fixedTime)

		if !general.Action.StricterOrEqual(enterprise.Action) {
			t.Errorf("confidence %v: general %q weaker than enterprise %q",
				confidence, general.Action, enterprise.Action)
		}
		if !enterprise.Action.StricterOrEqual(sandbox.Action) {
			t.Errorf("confidence %v: enterprise %q weaker than research_sandbox %q",
				confidence, enterprise.Action, sandbox.Action)
		}
	}
}

// TestDecide_HighestSeverityWinsNumerically tests that severities compare by
// numeric level, not as strings: an asl_10 trigger must outrank asl_3 even
// though "asl_10" sorts before "asl_3" lexicographically.
func TestDecide_HighestSeverityWinsNumerically(t *testing.T) {
	cfg := policy.Default()
	cfg.ASLTriggers = append(cfg.ASLTriggers, policy.ASLTrigger{
		Category:   classifier.CategoryJailbreak,
		Confidence: 0.90,
		Severity:   "asl_10",
	})

	// cbrn fires the asl_3 trigger first (sorted category order), then
	// jailbreak fires asl_10.
	scores := scoreSet(map[classifier.RiskCategory]float64{
		classifier.CategoryCBRN:      0.25,
		classifier.CategoryJailbreak: 0.95,
	})

	d := DecideAt("evt-1", scores, event.TierGeneral, cfg, fixedTime)
	if d.Action != ActionEscalate {
		t.Fatalf("Action = %q, want %q", d.Action, ActionEscalate)
	}
	if d.ASLSeverity != "asl_10" {
		t.Errorf("ASLSeverity = %q, want asl_10", d.ASLSeverity)
	}
}

// TestSeverityHigher tests the severity ordering rules.
func TestSeverityHigher(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"asl_3", "", true},
		{"asl_4", "asl_3", true},
		{"asl_3", "asl_4", false},
		{"asl_10", "asl_3", true},
		{"asl_3", "asl_10", false},
		{"asl_3", "asl_3", false},
		// Unnumbered labels rank below any numbered level.
		{"critical", "asl_3", false},
		{"asl_3", "critical", true},
		// Among themselves they fall back to string order.
		{"critical", "advisory", true},
	}

	for _, tt := range tests {
		if got := severityHigher(tt.a, tt.b); got != tt.want {
			t.Errorf("severityHigher(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

// TestDecide_PolicyVersionRecorded tests the audit linkage to the snapshot.
func TestDecide_PolicyVersionRecorded(t *testing.T) {
	cfg := policy.Default()
	d := DecideAt("evt-1", scoreSet(nil), event.TierGeneral, cfg, fixedTime)
	if d.PolicyVersion != cfg.Version {
		t.Errorf("PolicyVersion = %q, want %q", d.PolicyVersion, cfg.Version)
	}
}

// TestActionPrecedence tests the explicit ordering.
func TestActionPrecedence(t *testing.T) {
	ordered := []Action{ActionAllow, ActionRedact, ActionBlock, ActionEscalate}
	for i, weaker := range ordered {
		for _, stronger := range ordered[i:] {
			if !stronger.StricterOrEqual(weaker) {
				t.Errorf("%q should be stricter or equal to %q", stronger, weaker)
			}
		}
	}
}
