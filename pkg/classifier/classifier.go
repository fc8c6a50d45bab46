package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"sentra-hq/minerva/pkg/event"
)

// Config contains configuration for the classifier.
type Config struct {
	// FailSafeConfidence is the confidence assigned to a category when its
	// detector fails. A detector outage must bias toward Escalate/Block,
	// never silently Allow.
	// Default: 1.0
	FailSafeConfidence float64
}

// DefaultConfig returns the default classifier configuration.
func DefaultConfig() *Config {
	return &Config{
		FailSafeConfidence: 1.0,
	}
}

// Classifier evaluates events against all registered detectors concurrently.
type Classifier struct {
	config *Config
	logger *slog.Logger

	mu        sync.RWMutex
	detectors map[RiskCategory]Detector
}

// New creates a classifier with the given configuration. Detectors are added
// with Register; NewDefault returns a classifier preloaded with the built-in
// detector set.
func New(config *Config) *Classifier {
	if config == nil {
		config = DefaultConfig()
	}
	return &Classifier{
		config:    config,
		logger:    slog.Default().With("component", "classifier"),
		detectors: make(map[RiskCategory]Detector),
	}
}

// NewDefault creates a classifier with the built-in lexical detectors for
// cbrn, self_harm, jailbreak, and exploitation.
func NewDefault(config *Config) (*Classifier, error) {
	c := New(config)

	builders := []func() (*LexicalDetector, error){
		NewCBRNDetector,
		NewSelfHarmDetector,
		NewJailbreakDetector,
		NewExploitationDetector,
	}
	for _, build := range builders {
		d, err := build()
		if err != nil {
			return nil, err
		}
		if err := c.Register(d); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register adds a detector to the registry. Registering a second detector for
// the same category is an error; categories are scored by exactly one
// detector.
func (c *Classifier) Register(d Detector) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cat := d.Category()
	if _, exists := c.detectors[cat]; exists {
		return fmt.Errorf("detector already registered for category %q", cat)
	}
	c.detectors[cat] = d

	c.logger.Debug("detector registered", "category", cat)
	return nil
}

// Categories returns the registered categories in sorted order.
func (c *Classifier) Categories() []RiskCategory {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cats := make([]RiskCategory, 0, len(c.detectors))
	for cat := range c.detectors {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// Classify scores the event against every registered category.
//
// Detectors run concurrently and independently; no detector observes
// another's output. Classify fails only on malformed input (missing text
// fields). A detector failure never fails classification: the category
// receives the fail-safe confidence with evidence marked as a classifier
// failure, so the downstream decision errs toward caution.
func (c *Classifier) Classify(ctx context.Context, ev *event.InteractionEvent) (ScoreSet, error) {
	if ev == nil {
		return nil, NewClassificationError("", "", fmt.Errorf("event is nil"))
	}
	text := ev.Text()
	if text == "" {
		return nil, NewClassificationError(ev.ID, "",
			fmt.Errorf("event has no prompt or completion text"))
	}

	c.mu.RLock()
	detectors := make([]Detector, 0, len(c.detectors))
	for _, d := range c.detectors {
		detectors = append(detectors, d)
	}
	c.mu.RUnlock()

	type result struct {
		category RiskCategory
		score    Score
	}

	results := make(chan result, len(detectors))
	var wg sync.WaitGroup

	for _, d := range detectors {
		wg.Add(1)
		go func(d Detector) {
			defer wg.Done()
			results <- result{
				category: d.Category(),
				score:    c.scoreOne(d, ev.ID, text),
			}
		}(d)
	}

	wg.Wait()
	close(results)

	scores := make(ScoreSet, len(detectors))
	for r := range results {
		scores[r.category] = r.score
	}
	return scores, nil
}

// scoreOne runs a single detector, converting failures (errors or panics)
// into the fail-safe maximum-caution score.
func (c *Classifier) scoreOne(d Detector, eventID, text string) (score Score) {
	cat := d.Category()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("detector panicked",
				"category", cat,
				"event_id", eventID,
				"panic", r,
			)
			score = c.failSafeScore(cat)
		}
	}()

	score, err := d.Score(text)
	if err != nil {
		c.logger.Error("detector failed, applying fail-safe score",
			"category", cat,
			"event_id", eventID,
			"error", err,
		)
		return c.failSafeScore(cat)
	}

	// Detectors must not emit out-of-range confidences; clamp rather than
	// propagate a bad value into the decision engine.
	if score.Confidence < 0 {
		score.Confidence = 0
	}
	if score.Confidence > 1 {
		score.Confidence = 1
	}
	return score
}

// failSafeScore is the maximum-caution score substituted for a failed
// detector.
func (c *Classifier) failSafeScore(cat RiskCategory) Score {
	return Score{
		Category:   cat,
		Confidence: c.config.FailSafeConfidence,
		Evidence:   []Evidence{{Signal: "classifier_failure"}},
		Severity:   SeverityCritical,
	}
}
