package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention MINERVA_SECTION_FIELD (e.g. MINERVA_LOGGING_LEVEL) and always
// take precedence over file values.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies MINERVA_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	// Logging overrides
	if val := os.Getenv("MINERVA_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("MINERVA_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
	if val := os.Getenv("MINERVA_LOGGING_REDACT_PII"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Logging.RedactPII = b
		}
	}

	// Metrics overrides
	if val := os.Getenv("MINERVA_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("MINERVA_METRICS_LISTEN_ADDR"); val != "" {
		cfg.Metrics.ListenAddr = val
	}

	// Policy overrides
	if val := os.Getenv("MINERVA_POLICY_PATH"); val != "" {
		cfg.Policy.Path = val
	}
	if val := os.Getenv("MINERVA_POLICY_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Policy.Watch = b
		}
	}
	if val := os.Getenv("MINERVA_POLICY_RELOAD_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Policy.ReloadDebounce = d
		}
	}

	// Classifier overrides
	if val := os.Getenv("MINERVA_CLASSIFIER_FAIL_SAFE_CONFIDENCE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Classifier.FailSafeConfidence = &f
		}
	}

	// Queue overrides
	if val := os.Getenv("MINERVA_QUEUE_NAME"); val != "" {
		cfg.Queue.Name = val
	}
	if val := os.Getenv("MINERVA_QUEUE_SLA"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Queue.SLA = d
		}
	}
	if val := os.Getenv("MINERVA_QUEUE_SWEEP_SCHEDULE"); val != "" {
		cfg.Queue.SweepSchedule = val
	}
	if val := os.Getenv("MINERVA_QUEUE_STORE_PATH"); val != "" {
		cfg.Queue.StorePath = val
	}

	// Decision log overrides
	if val := os.Getenv("MINERVA_DECISION_LOG_BACKEND"); val != "" {
		cfg.DecisionLog.Backend = val
	}
	if val := os.Getenv("MINERVA_DECISION_LOG_PATH"); val != "" {
		cfg.DecisionLog.Path = val
	}

	// Pipeline overrides
	if val := os.Getenv("MINERVA_PIPELINE_WORKERS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Pipeline.Workers = i
		}
	}
}
