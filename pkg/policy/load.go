package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads, parses, and validates a threshold document from a YAML file.
// On any failure the returned error is a *ConfigError (or wraps the I/O
// error) and no partially parsed configuration escapes.
func Load(path string) (*ThresholdConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read threshold config %q: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses and validates a threshold document. The source string is used
// in error messages only.
//
// yaml.v3 rejects duplicate mapping keys, so duplicate tier or category keys
// fail at parse time.
func Parse(data []byte, source string) (*ThresholdConfig, error) {
	var cfg ThresholdConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, NewConfigError(source, []string{fmt.Sprintf("parse failure: %v", err)})
	}

	if err := Validate(&cfg, source); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks a threshold document for structural and range errors.
// All failures are collected and reported together.
//
// Rules:
//   - version is required
//   - at least one tier is configured
//   - every tier has an entry for every known category (the union of
//     categories referenced by any tier)
//   - block thresholds, trigger confidences, and band bounds are in [0,1]
//   - redact bands satisfy low <= high
//   - ASL triggers name a category and do not repeat a (category, severity)
//     pair
func Validate(cfg *ThresholdConfig, source string) error {
	var errs []string

	if cfg.Version == "" {
		errs = append(errs, "version is required")
	}
	if len(cfg.Tiers) == 0 {
		errs = append(errs, "at least one tier must be configured")
	}

	known := cfg.Categories()
	for tier, thresholds := range cfg.Tiers {
		for _, cat := range known {
			threshold, ok := thresholds[cat]
			if !ok {
				errs = append(errs, fmt.Sprintf(
					"tier %q: missing threshold for category %q", tier, cat))
				continue
			}
			if threshold < 0 || threshold > 1 {
				errs = append(errs, fmt.Sprintf(
					"tier %q: category %q: threshold %v out of range [0,1]",
					tier, cat, threshold))
			}
		}
	}

	for cat, band := range cfg.RedactBands {
		if band.Low < 0 || band.Low > 1 || band.High < 0 || band.High > 1 {
			errs = append(errs, fmt.Sprintf(
				"redact band for %q: bounds [%v,%v) out of range [0,1]",
				cat, band.Low, band.High))
		}
		if band.Low > band.High {
			errs = append(errs, fmt.Sprintf(
				"redact band for %q: low %v exceeds high %v", cat, band.Low, band.High))
		}
	}

	seenTriggers := make(map[string]struct{})
	for i, trigger := range cfg.ASLTriggers {
		if trigger.Category == "" {
			errs = append(errs, fmt.Sprintf("asl trigger %d: category is required", i))
			continue
		}
		if trigger.Confidence < 0 || trigger.Confidence > 1 {
			errs = append(errs, fmt.Sprintf(
				"asl trigger %q: confidence %v out of range [0,1]",
				trigger.Category, trigger.Confidence))
		}
		key := string(trigger.Category) + "/" + trigger.Severity
		if _, dup := seenTriggers[key]; dup {
			errs = append(errs, fmt.Sprintf(
				"asl trigger %q: duplicate trigger for severity %q",
				trigger.Category, trigger.Severity))
		}
		seenTriggers[key] = struct{}{}
	}

	if cfg.Actions.Escalate.SLAHours < 0 {
		errs = append(errs, fmt.Sprintf(
			"actions.escalate.sla_hours %d must not be negative",
			cfg.Actions.Escalate.SLAHours))
	}

	if len(errs) > 0 {
		return NewConfigError(source, errs)
	}
	return nil
}
