// Package policy defines the versioned threshold configuration that drives
// policy decisions.
//
// A ThresholdConfig is an immutable snapshot: per-tier block thresholds for
// each risk category, category-specific redact bands, ASL trigger definitions,
// and action metadata. Documents are loaded from YAML and fully validated
// before use; a document that fails validation is rejected as a whole and the
// previously active configuration stays in force.
//
// The Store holds the active snapshot behind an atomic pointer. Readers always
// observe either the fully-old or the fully-new configuration, never a partial
// update. An optional file watcher reloads the document on change.
package policy
