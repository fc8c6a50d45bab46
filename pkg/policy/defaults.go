package policy

import (
	"sentra-hq/minerva/pkg/classifier"
	"sentra-hq/minerva/pkg/event"
)

// Default returns the built-in threshold document, used when no policy file
// is configured. The values mirror the shipped policy/thresholds.yaml.
func Default() *ThresholdConfig {
	return &ThresholdConfig{
		Version: "builtin-1",
		Tiers: map[event.Tier]map[classifier.RiskCategory]float64{
			event.TierGeneral: {
				classifier.CategoryCBRN:         0.15,
				classifier.CategorySelfHarm:     0.30,
				classifier.CategoryJailbreak:    0.30,
				classifier.CategoryExploitation: 0.30,
			},
			event.TierEnterprise: {
				classifier.CategoryCBRN:         0.18,
				classifier.CategorySelfHarm:     0.50,
				classifier.CategoryJailbreak:    0.45,
				classifier.CategoryExploitation: 0.45,
			},
			event.TierResearchSandbox: {
				classifier.CategoryCBRN:         0.25,
				classifier.CategorySelfHarm:     0.80,
				classifier.CategoryJailbreak:    0.60,
				classifier.CategoryExploitation: 0.60,
			},
		},
		RedactBands: map[classifier.RiskCategory]Band{
			classifier.CategorySelfHarm: {Low: 0.30, High: 0.50},
		},
		ASLTriggers: []ASLTrigger{
			{
				Category:    classifier.CategoryCBRN,
				Confidence:  0.20,
				Severity:    "asl_3",
				Description: "Biological/chemical threat enhancement",
			},
			{
				Category:    classifier.CategoryExploitation,
				Confidence:  0.50,
				Severity:    "asl_3",
				Description: "Autonomous cyber offense capability",
			},
			{
				Category:    classifier.CategoryJailbreak,
				Confidence:  0.50,
				Severity:    "asl_3",
				Description: "Scaled deception capability",
			},
		},
		Actions: Actions{
			Block: BlockAction{
				Message: "Content blocked by safety policy",
			},
			Escalate: EscalateAction{
				Queue:    "safety_review",
				SLAHours: 24,
			},
		},
	}
}
