package classifier

import (
	"fmt"
	"regexp"
	"sort"
)

// Pattern is a weighted signal evaluated by a LexicalDetector.
//
// Positive weights raise confidence; negative weights describe mitigating
// context (academic framing, fiction, help-seeking) and lower it.
type Pattern struct {
	// Expr is the regular expression source. Patterns are compiled
	// case-insensitively unless CaseSensitive is set.
	Expr string

	// Weight is the signal strength in (0,1] for risk patterns, or a
	// negative value for mitigating-context patterns.
	Weight float64

	// Signal is the stable label recorded in evidence (e.g.
	// "nerve_agent_synthesis").
	Signal string

	// CaseSensitive disables the default case-insensitive compilation.
	// Used for patterns where casing carries signal (injected tags,
	// prompt markers).
	CaseSensitive bool
}

// compiledPattern pairs a Pattern with its compiled regexp.
type compiledPattern struct {
	Pattern
	re *regexp.Regexp
}

// LexicalConfig contains configuration for a lexical detector.
type LexicalConfig struct {
	// Category is the risk category this detector scores.
	Category RiskCategory

	// Patterns are the positive risk signals.
	Patterns []Pattern

	// Context are the mitigating-context signals (negative weights).
	Context []Pattern

	// SeverityBands are the lower confidence bounds for the medium, high,
	// and critical reporting bands.
	SeverityBands [3]float64

	// MaxExcerptLen bounds sanitized evidence excerpts.
	// Default: 120
	MaxExcerptLen int
}

// LexicalDetector scores text with weighted regular-expression patterns.
//
// Matched signals combine with a decayed sum: signals are sorted by weight
// descending and each additional signal contributes 0.8x the previous one's
// share. The aggregation is monotonic and saturating: adding a signal never
// lowers confidence, and confidence never exceeds 1.0.
type LexicalDetector struct {
	category  RiskCategory
	patterns  []compiledPattern
	context   []compiledPattern
	bands     [3]float64
	sanitizer *Sanitizer
	maxLen    int
}

// matchDecay is the per-signal contribution decay for the weighted sum.
const matchDecay = 0.8

// NewLexicalDetector creates a lexical detector from the given configuration.
// All pattern expressions are compiled up front; an invalid expression fails
// construction rather than scoring.
func NewLexicalDetector(cfg LexicalConfig) (*LexicalDetector, error) {
	if cfg.Category == "" {
		return nil, fmt.Errorf("lexical detector: category is required")
	}
	if cfg.MaxExcerptLen <= 0 {
		cfg.MaxExcerptLen = 120
	}

	compile := func(patterns []Pattern) ([]compiledPattern, error) {
		compiled := make([]compiledPattern, 0, len(patterns))
		for _, p := range patterns {
			expr := p.Expr
			if !p.CaseSensitive {
				expr = "(?i)" + expr
			}
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("lexical detector %s: pattern %q: %w",
					cfg.Category, p.Signal, err)
			}
			compiled = append(compiled, compiledPattern{Pattern: p, re: re})
		}
		return compiled, nil
	}

	patterns, err := compile(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	context, err := compile(cfg.Context)
	if err != nil {
		return nil, err
	}

	return &LexicalDetector{
		category:  cfg.Category,
		patterns:  patterns,
		context:   context,
		bands:     cfg.SeverityBands,
		sanitizer: NewSanitizer(),
		maxLen:    cfg.MaxExcerptLen,
	}, nil
}

// Category returns the risk category this detector scores.
func (d *LexicalDetector) Category() RiskCategory {
	return d.category
}

// Score evaluates the text against the detector's pattern set.
func (d *LexicalDetector) Score(text string) (Score, error) {
	var (
		weights  []float64
		evidence []Evidence
		penalty  float64
	)

	for _, p := range d.patterns {
		loc := p.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		weights = append(weights, p.Weight)
		evidence = append(evidence, Evidence{
			Signal:  p.Signal,
			Excerpt: d.sanitizer.Excerpt(text[loc[0]:loc[1]], d.maxLen),
		})
	}

	for _, p := range d.context {
		if p.re.MatchString(text) {
			// Context weights are negative; accumulate the reduction.
			if p.Weight < 0 {
				penalty += -p.Weight
			}
		}
	}

	confidence := combineWeights(weights) - penalty
	if confidence < 0 {
		confidence = 0
	}

	return Score{
		Category:   d.category,
		Confidence: confidence,
		Evidence:   evidence,
		Severity:   severityFor(confidence, d.bands),
	}, nil
}

// combineWeights aggregates positive signal weights into a confidence.
//
// Weights are sorted descending and summed with geometric decay, so the
// strongest signal dominates and each additional signal contributes less.
// The result saturates at 1.0.
func combineWeights(weights []float64) float64 {
	if len(weights) == 0 {
		return 0
	}

	sorted := make([]float64, len(weights))
	copy(sorted, weights)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	confidence := 0.0
	decay := 1.0
	for _, w := range sorted {
		confidence += w * decay
		decay *= matchDecay
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
