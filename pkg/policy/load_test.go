package policy

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sentra-hq/minerva/pkg/classifier"
	"sentra-hq/minerva/pkg/event"
)

const validDoc = `
version: "2026.08"
tiers:
  general:
    cbrn: 0.15
    self_harm: 0.30
  enterprise:
    cbrn: 0.18
    self_harm: 0.50
redact_bands:
  self_harm:
    low: 0.30
    high: 0.50
asl_triggers:
  - category: cbrn
    confidence: 0.20
    severity: asl_3
    description: Biological/chemical threat enhancement
actions:
  block:
    message: Content blocked by safety policy
  escalate:
    queue: safety_review
    sla_hours: 24
`

// TestParse_ValidDocument tests parsing a complete document.
func TestParse_ValidDocument(t *testing.T) {
	cfg, err := Parse([]byte(validDoc), "test")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if cfg.Version != "2026.08" {
		t.Errorf("Version = %q, want 2026.08", cfg.Version)
	}
	if got := cfg.Tiers[event.TierGeneral][classifier.CategoryCBRN]; got != 0.15 {
		t.Errorf("general/cbrn threshold = %v, want 0.15", got)
	}
	if len(cfg.ASLTriggers) != 1 || cfg.ASLTriggers[0].Severity != "asl_3" {
		t.Errorf("ASLTriggers = %+v, want one asl_3 trigger", cfg.ASLTriggers)
	}
	if cfg.Actions.Escalate.SLAHours != 24 {
		t.Errorf("SLAHours = %d, want 24", cfg.Actions.Escalate.SLAHours)
	}
	if band := cfg.RedactBands[classifier.CategorySelfHarm]; band.Low != 0.30 || band.High != 0.50 {
		t.Errorf("Redact band = %+v, want [0.30,0.50)", band)
	}
}

// TestParse_RejectsInvalidDocuments tests the validation rules.
func TestParse_RejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "missing version",
			doc: `
tiers:
  general:
    cbrn: 0.15
`,
			wantErr: "version is required",
		},
		{
			name:    "no tiers",
			doc:     `version: "1"`,
			wantErr: "at least one tier",
		},
		{
			name: "threshold out of range",
			doc: `
version: "1"
tiers:
  general:
    cbrn: 1.5
`,
			wantErr: "out of range",
		},
		{
			name: "tier missing known category",
			doc: `
version: "1"
tiers:
  general:
    cbrn: 0.15
    self_harm: 0.30
  enterprise:
    cbrn: 0.18
`,
			wantErr: `missing threshold for category "self_harm"`,
		},
		{
			name: "trigger confidence out of range",
			doc: `
version: "1"
tiers:
  general:
    cbrn: 0.15
asl_triggers:
  - category: cbrn
    confidence: 2.0
    severity: asl_3
`,
			wantErr: "out of range",
		},
		{
			name: "duplicate trigger",
			doc: `
version: "1"
tiers:
  general:
    cbrn: 0.15
asl_triggers:
  - category: cbrn
    confidence: 0.2
    severity: asl_3
  - category: cbrn
    confidence: 0.3
    severity: asl_3
`,
			wantErr: "duplicate trigger",
		},
		{
			name: "inverted redact band",
			doc: `
version: "1"
tiers:
  general:
    self_harm: 0.30
redact_bands:
  self_harm:
    low: 0.5
    high: 0.3
`,
			wantErr: "exceeds high",
		},
		{
			name: "duplicate tier key",
			doc: `
version: "1"
tiers:
  general:
    cbrn: 0.15
  general:
    cbrn: 0.20
`,
			wantErr: "parse failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), "test")
			if err == nil {
				t.Fatal("Parse() = nil, want error")
			}

			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Parse() returned %T, want *ConfigError", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

// TestLoad_File tests loading from disk.
func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thresholds.yaml")
	if err := os.WriteFile(path, []byte(validDoc), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Version != "2026.08" {
		t.Errorf("Version = %q, want 2026.08", cfg.Version)
	}
}

// TestLoad_MissingFile tests the read error path.
func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/thresholds.yaml"); err == nil {
		t.Fatal("Load() = nil, want error")
	}
}

// TestDefault_IsValid tests that the built-in document passes its own
// validation.
func TestDefault_IsValid(t *testing.T) {
	if err := Validate(Default(), "builtin"); err != nil {
		t.Fatalf("Validate(Default()) failed: %v", err)
	}
}

// TestMostRestrictiveTier tests the deterministic fallback tier choice.
func TestMostRestrictiveTier(t *testing.T) {
	cfg := Default()
	if got := cfg.MostRestrictiveTier(); got != event.TierGeneral {
		t.Errorf("MostRestrictiveTier() = %q, want %q", got, event.TierGeneral)
	}
}
