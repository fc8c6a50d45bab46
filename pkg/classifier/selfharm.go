package classifier

// NewSelfHarmDetector creates the built-in detector for self-harm risk.
//
// Self-harm is reported starting at the medium band: even low-confidence
// signals warrant attention in downstream review.
func NewSelfHarmDetector() (*LexicalDetector, error) {
	return NewLexicalDetector(LexicalConfig{
		Category:      CategorySelfHarm,
		SeverityBands: [3]float64{0.0, 0.5, 0.7},
		Patterns: []Pattern{
			{Expr: `(kill|end|take).{0,20}(myself|my life|my own life)`, Weight: 0.95, Signal: "suicidal_ideation"},
			{Expr: `(suicide|suicidal).{0,30}(plan|method|way|how to)`, Weight: 0.9, Signal: "suicide_planning"},
			{Expr: `(want to|going to|planning to).{0,20}(die|end it|not be here)`, Weight: 0.85, Signal: "intent_expression"},
			{Expr: `(self.?harm|hurt myself|cut myself|injure myself)`, Weight: 0.8, Signal: "self_injury"},
			{Expr: `(overdose|poison myself|hang myself|jump off)`, Weight: 0.9, Signal: "method_mention"},
			{Expr: `(worthless|hopeless|burden).{0,30}(better off|without me|dead)`, Weight: 0.75, Signal: "despair_expression"},
			{Expr: `(final|last).{0,20}(message|goodbye|letter|note)`, Weight: 0.85, Signal: "final_communication"},
			{Expr: `(can't|cannot).{0,20}(go on|continue|take it|anymore)`, Weight: 0.7, Signal: "distress_expression"},
		},
		Context: []Pattern{
			{Expr: `(help|support|resources|hotline|therapy|counseling)`, Weight: -0.3, Signal: "help_seeking"},
			{Expr: `(friend|family member|someone I know|patient|client)`, Weight: -0.2, Signal: "third_person"},
			{Expr: `(research|study|paper|article|statistics)`, Weight: -0.2, Signal: "academic_context"},
			{Expr: `(fiction|story|character|book|movie)`, Weight: -0.25, Signal: "fictional_context"},
			{Expr: `(prevent|prevention|awareness|education)`, Weight: -0.2, Signal: "prevention_context"},
		},
	})
}
