package config

import "time"

// Config is the root configuration for the minerva process.
type Config struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Policy contains threshold document configuration.
	Policy PolicyConfig `yaml:"policy"`

	// Classifier contains risk classifier configuration.
	Classifier ClassifierConfig `yaml:"classifier"`

	// Queue contains escalation queue configuration.
	Queue QueueConfig `yaml:"queue"`

	// DecisionLog contains decision log storage configuration.
	DecisionLog DecisionLogConfig `yaml:"decision_log"`

	// Pipeline contains batch processing configuration.
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactPII enables automatic PII redaction in logs.
	// Default: true
	RedactPII bool `yaml:"redact_pii"`

	// RedactPatterns contains custom PII redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom PII redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "sentra"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "minerva"
	Subsystem string `yaml:"subsystem"`

	// ListenAddr is the address the /metrics endpoint is served on during
	// `minerva run`. Empty disables the endpoint.
	// Example: "127.0.0.1:9464"
	ListenAddr string `yaml:"listen_addr"`

	// ClassificationDurationBuckets defines histogram buckets for
	// classification duration (seconds).
	// Default: [0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1]
	ClassificationDurationBuckets []float64 `yaml:"classification_duration_buckets"`
}

// PolicyConfig contains threshold document configuration.
type PolicyConfig struct {
	// Path is the threshold YAML document. Empty uses the built-in
	// defaults.
	Path string `yaml:"path"`

	// Watch reloads the document when the file changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// ReloadDebounce coalesces rapid file change events.
	// Default: 200ms
	ReloadDebounce time.Duration `yaml:"reload_debounce"`
}

// ClassifierConfig contains risk classifier configuration.
type ClassifierConfig struct {
	// FailSafeConfidence is the confidence assigned to a category when
	// its detector fails. Must be in [0,1].
	// Default: 1.0
	FailSafeConfidence *float64 `yaml:"fail_safe_confidence"`
}

// QueueConfig contains escalation queue configuration.
type QueueConfig struct {
	// Name is the review queue name.
	// Default: "safety_review"
	Name string `yaml:"name"`

	// SLA is the review deadline measured from ticket creation.
	// Default: 24h
	SLA time.Duration `yaml:"sla"`

	// SweepSchedule is the cron expression for the SLA expiry sweep.
	// Empty disables the sweeper.
	// Default: "* * * * *"
	SweepSchedule string `yaml:"sweep_schedule"`

	// StorePath is the SQLite file for durable tickets. Empty keeps the
	// queue memory-only.
	StorePath string `yaml:"store_path"`
}

// DecisionLogConfig contains decision log storage configuration.
type DecisionLogConfig struct {
	// Backend selects the storage backend.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file. Required for the sqlite backend.
	Path string `yaml:"path"`
}

// PipelineConfig contains batch processing configuration.
type PipelineConfig struct {
	// Workers is the number of concurrent event workers.
	// Default: 8
	Workers int `yaml:"workers"`
}
