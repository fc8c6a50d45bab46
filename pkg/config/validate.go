package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for invalid values. All problems are
// collected and reported together.
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", cfg.Logging.Level))
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("logging.format %q is not one of json, text", cfg.Logging.Format))
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Namespace == "" {
			errs = append(errs, "metrics.namespace is required when metrics are enabled")
		}
		if cfg.Metrics.Subsystem == "" {
			errs = append(errs, "metrics.subsystem is required when metrics are enabled")
		}
	}

	if cfg.Policy.ReloadDebounce < 0 {
		errs = append(errs, "policy.reload_debounce cannot be negative")
	}
	if cfg.Policy.Watch && cfg.Policy.Path == "" {
		errs = append(errs, "policy.path is required when policy.watch is enabled")
	}

	if fs := cfg.Classifier.FailSafeConfidence; fs != nil && (*fs < 0 || *fs > 1) {
		errs = append(errs, fmt.Sprintf("classifier.fail_safe_confidence %v is out of range [0,1]", *fs))
	}

	if cfg.Queue.SLA <= 0 {
		errs = append(errs, "queue.sla must be positive")
	}
	if cfg.Queue.SweepSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Queue.SweepSchedule); err != nil {
			errs = append(errs, fmt.Sprintf("queue.sweep_schedule %q is not a valid cron expression", cfg.Queue.SweepSchedule))
		}
	}

	switch cfg.DecisionLog.Backend {
	case "memory":
	case "sqlite":
		if cfg.DecisionLog.Path == "" {
			errs = append(errs, "decision_log.path is required for the sqlite backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("decision_log.backend %q is not one of memory, sqlite", cfg.DecisionLog.Backend))
	}

	if cfg.Pipeline.Workers < 1 {
		errs = append(errs, "pipeline.workers must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
