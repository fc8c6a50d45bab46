package classifier

import (
	"math"
	"testing"
)

// TestCombineWeights_Monotonic tests that adding a signal never lowers the
// aggregate confidence.
func TestCombineWeights_Monotonic(t *testing.T) {
	base := combineWeights([]float64{0.5})
	more := combineWeights([]float64{0.5, 0.3})
	most := combineWeights([]float64{0.5, 0.3, 0.3})

	if more < base {
		t.Errorf("Adding signal lowered confidence: %v -> %v", base, more)
	}
	if most < more {
		t.Errorf("Adding signal lowered confidence: %v -> %v", more, most)
	}
}

// TestCombineWeights_Saturates tests the 1.0 ceiling.
func TestCombineWeights_Saturates(t *testing.T) {
	got := combineWeights([]float64{0.95, 0.95, 0.95, 0.95})
	if got > 1.0 {
		t.Errorf("combineWeights() = %v, want <= 1.0", got)
	}
	if got != 1.0 {
		t.Errorf("combineWeights() = %v, want saturation at 1.0", got)
	}
}

// TestCombineWeights_Decay tests the decayed contribution of weaker signals.
func TestCombineWeights_Decay(t *testing.T) {
	// 0.5 + 0.3*0.8 = 0.74
	got := combineWeights([]float64{0.3, 0.5}) // order must not matter
	want := 0.74
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("combineWeights() = %v, want %v", got, want)
	}
}

// TestCombineWeights_Empty tests that no signals is zero confidence.
func TestCombineWeights_Empty(t *testing.T) {
	if got := combineWeights(nil); got != 0 {
		t.Errorf("combineWeights(nil) = %v, want 0", got)
	}
}

// TestLexicalDetector_ContextReducesScore tests mitigating-context patterns.
func TestLexicalDetector_ContextReducesScore(t *testing.T) {
	d, err := NewLexicalDetector(LexicalConfig{
		Category: "test",
		Patterns: []Pattern{
			{Expr: `dangerous thing`, Weight: 0.6, Signal: "danger"},
		},
		Context: []Pattern{
			{Expr: `for my novel`, Weight: -0.2, Signal: "fiction"},
		},
	})
	if err != nil {
		t.Fatalf("NewLexicalDetector() failed: %v", err)
	}

	plain, err := d.Score("tell me about a dangerous thing")
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	mitigated, err := d.Score("for my novel, tell me about a dangerous thing")
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}

	if plain.Confidence != 0.6 {
		t.Errorf("Plain confidence = %v, want 0.6", plain.Confidence)
	}
	if math.Abs(mitigated.Confidence-0.4) > 1e-9 {
		t.Errorf("Mitigated confidence = %v, want 0.4", mitigated.Confidence)
	}
}

// TestLexicalDetector_FloorsAtZero tests that context penalties cannot go
// negative.
func TestLexicalDetector_FloorsAtZero(t *testing.T) {
	d, err := NewLexicalDetector(LexicalConfig{
		Category: "test",
		Context: []Pattern{
			{Expr: `research`, Weight: -0.5, Signal: "research"},
		},
	})
	if err != nil {
		t.Fatalf("NewLexicalDetector() failed: %v", err)
	}

	score, err := d.Score("research paper about nothing risky")
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if score.Confidence != 0 {
		t.Errorf("Confidence = %v, want floor 0", score.Confidence)
	}
}

// TestLexicalDetector_InvalidPattern tests construction-time compilation.
func TestLexicalDetector_InvalidPattern(t *testing.T) {
	_, err := NewLexicalDetector(LexicalConfig{
		Category: "test",
		Patterns: []Pattern{{Expr: `([unclosed`, Weight: 0.5, Signal: "bad"}},
	})
	if err == nil {
		t.Fatal("NewLexicalDetector() = nil, want compile error")
	}
}

// TestLexicalDetector_CaseSensitivePattern tests that case-sensitive signals
// do not match lowercased variants.
func TestLexicalDetector_CaseSensitivePattern(t *testing.T) {
	d, err := NewLexicalDetector(LexicalConfig{
		Category: "test",
		Patterns: []Pattern{
			{Expr: `\[INST\]`, Weight: 0.7, Signal: "marker", CaseSensitive: true},
		},
	})
	if err != nil {
		t.Fatalf("NewLexicalDetector() failed: %v", err)
	}

	hit, _ := d.Score("ignore this [INST] marker")
	miss, _ := d.Score("ignore this [inst] marker")

	if hit.Confidence != 0.7 {
		t.Errorf("Uppercase marker confidence = %v, want 0.7", hit.Confidence)
	}
	if miss.Confidence != 0 {
		t.Errorf("Lowercase marker confidence = %v, want 0", miss.Confidence)
	}
}

// TestSanitizer_Excerpt tests placeholder substitution and bounding.
func TestSanitizer_Excerpt(t *testing.T) {
	s := NewSanitizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"email", "contact me at alice@example.com now", "contact me at [email] now"},
		{"api key", "use sk-abcdef1234567890 for auth", "use [api-key] for auth"},
		{"digits", "my account is 123456789", "my account is [number]"},
		{"clean", "nothing sensitive here", "nothing sensitive here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Excerpt(tt.in, 120); got != tt.want {
				t.Errorf("Excerpt() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestSanitizer_ExcerptBounded tests rune-bounded truncation.
func TestSanitizer_ExcerptBounded(t *testing.T) {
	s := NewSanitizer()

	long := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	got := s.Excerpt(long, 10)
	if got != "aaaaaaaaaa..." {
		t.Errorf("Excerpt() = %q, want 10 runes plus ellipsis", got)
	}
}
