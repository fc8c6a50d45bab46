package classifier

// RiskCategory identifies an independent risk dimension an event is scored
// against. The set is extensible: registering a detector for a new category
// adds it to the classifier's output.
type RiskCategory string

const (
	// CategoryCBRN covers chemical, biological, radiological, and nuclear
	// weapons uplift.
	CategoryCBRN RiskCategory = "cbrn"

	// CategorySelfHarm covers self-harm and suicide-related content.
	CategorySelfHarm RiskCategory = "self_harm"

	// CategoryJailbreak covers attempts to bypass or override safety
	// measures.
	CategoryJailbreak RiskCategory = "jailbreak"

	// CategoryExploitation covers offensive cyber capability and abuse
	// tooling.
	CategoryExploitation RiskCategory = "exploitation"
)

// Severity is a coarse banding of a score, used for reporting only. Decision
// logic works from the continuous confidence, never from severity.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Evidence is a single matched signal supporting a score. Excerpts are
// sanitized and bounded before they leave the detector; raw sensitive content
// never appears in evidence.
type Evidence struct {
	// Signal names the matched pattern (e.g. "nerve_agent_synthesis").
	Signal string `json:"signal"`

	// Excerpt is a sanitized, length-bounded fragment of the matched text.
	Excerpt string `json:"excerpt,omitempty"`
}

// Score is the result of scoring one event against one category.
type Score struct {
	// Category the score applies to.
	Category RiskCategory `json:"category"`

	// Confidence is the detector's certainty in [0,1] that the event falls
	// in this category. Absence of risk is 0.0, not an error.
	Confidence float64 `json:"confidence"`

	// Evidence lists the matched signals, for explainability and audit.
	Evidence []Evidence `json:"evidence,omitempty"`

	// Severity is the reporting band for this confidence.
	Severity Severity `json:"severity"`
}

// ScoreSet maps each evaluated category to its score. Produced once per
// event; immutable after classification.
type ScoreSet map[RiskCategory]Score

// Confidence returns the confidence for a category, or 0 if the category was
// not evaluated.
func (s ScoreSet) Confidence(c RiskCategory) float64 {
	return s[c].Confidence
}

// Categories returns the categories present in the set, in unspecified order.
func (s ScoreSet) Categories() []RiskCategory {
	cats := make([]RiskCategory, 0, len(s))
	for c := range s {
		cats = append(cats, c)
	}
	return cats
}
