// Package classifier evaluates interaction events against a set of
// independent risk categories.
//
// A Classifier holds a registry of detectors, one per risk category. Each
// detector implements the same scoring contract: given interaction text, it
// returns a confidence in [0,1] plus supporting evidence. Detectors run
// concurrently and never observe each other's output, so classification is
// reproducible and scales with available cores.
//
// The built-in detectors are lexical (weighted regular-expression patterns
// with decayed aggregation), but any scoring strategy that satisfies the
// Detector interface can be registered, including statistical or model-based
// scorers.
package classifier
