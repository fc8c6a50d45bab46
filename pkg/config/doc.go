// Package config defines the runtime configuration for minerva.
//
// Configuration is loaded from a YAML document, defaulted, optionally
// overridden by MINERVA_* environment variables, and validated before use.
// The loading sequence is file, defaults, environment, validate; environment
// variables always take precedence over file values.
//
// Policy thresholds are configured separately (see pkg/policy); this package
// covers the process-level concerns: logging, metrics, queue, storage and
// pipeline sizing.
package config
