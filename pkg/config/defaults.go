package config

import "time"

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with defaults. Explicitly set
// values are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "sentra"
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = "minerva"
	}
	if len(cfg.Metrics.ClassificationDurationBuckets) == 0 {
		// Lexical classification is sub-millisecond in the common case.
		cfg.Metrics.ClassificationDurationBuckets = []float64{
			0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1,
		}
	}

	if cfg.Policy.ReloadDebounce == 0 {
		cfg.Policy.ReloadDebounce = 200 * time.Millisecond
	}

	if cfg.Classifier.FailSafeConfidence == nil {
		v := 1.0
		cfg.Classifier.FailSafeConfidence = &v
	}

	if cfg.Queue.Name == "" {
		cfg.Queue.Name = "safety_review"
	}
	if cfg.Queue.SLA == 0 {
		cfg.Queue.SLA = 24 * time.Hour
	}
	if cfg.Queue.SweepSchedule == "" {
		cfg.Queue.SweepSchedule = "* * * * *"
	}

	if cfg.DecisionLog.Backend == "" {
		cfg.DecisionLog.Backend = "memory"
	}

	if cfg.Pipeline.Workers == 0 {
		cfg.Pipeline.Workers = 8
	}
}
