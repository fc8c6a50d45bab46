package classifier

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Sanitizer scrubs sensitive literals out of evidence excerpts before they
// are retained for audit. Excerpts support explainability; they must never
// leak raw emails, credentials, or contact details into logs or storage.
type Sanitizer struct {
	rules []sanitizeRule
}

// sanitizeRule pairs a compiled pattern with its placeholder.
type sanitizeRule struct {
	name        string
	re          *regexp.Regexp
	replacement string
}

// NewSanitizer creates a sanitizer with the built-in rule set.
func NewSanitizer() *Sanitizer {
	rules := []struct {
		name        string
		expr        string
		replacement string
	}{
		{"email", `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`, "[email]"},
		{"api_key", `(sk|pk|rk)-[a-zA-Z0-9]{8,}`, "[api-key]"},
		{"bearer_token", `[Bb]earer\s+[a-zA-Z0-9._\-]+`, "[token]"},
		{"phone", `\+?\d[\d\s().-]{7,}\d`, "[number]"},
		{"long_digits", `\d{6,}`, "[number]"},
	}

	s := &Sanitizer{rules: make([]sanitizeRule, 0, len(rules))}
	for _, r := range rules {
		s.rules = append(s.rules, sanitizeRule{
			name:        r.name,
			re:          regexp.MustCompile(r.expr),
			replacement: r.replacement,
		})
	}
	return s
}

// Excerpt sanitizes a matched fragment and bounds it to maxLen runes.
// Truncation appends an ellipsis so a bounded excerpt is distinguishable
// from a complete one.
func (s *Sanitizer) Excerpt(text string, maxLen int) string {
	clean := s.Sanitize(text)
	clean = strings.Join(strings.Fields(clean), " ") // collapse whitespace

	if utf8.RuneCountInString(clean) <= maxLen {
		return clean
	}

	runes := []rune(clean)
	return string(runes[:maxLen]) + "..."
}

// Sanitize applies every rule to the text and returns the scrubbed result.
func (s *Sanitizer) Sanitize(text string) string {
	for _, r := range s.rules {
		text = r.re.ReplaceAllString(text, r.replacement)
	}
	return text
}
