package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// OutputFormat selects how command results are rendered.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
)

// Formatter renders command output.
type Formatter interface {
	FormatTo(w io.Writer, data any) error
}

// TextFormatter renders output with the value's String/Format representation.
type TextFormatter struct{}

// FormatTo writes data to the writer as plain text.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	_, err := fmt.Fprintf(w, "%v\n", data)
	return err
}

// JSONFormatter renders output as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes data to the writer as JSON.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// NewFormatter creates a formatter for the given format. Unknown formats are
// an error rather than a silent fallback so a typo in --format is caught.
func NewFormatter(format OutputFormat) (Formatter, error) {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}, nil
	case FormatText, "":
		return &TextFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (supported: text, json)", format)
	}
}

// OpenOutput opens the output destination for a command. An empty path means
// stdout; the caller must not close stdout.
func OpenOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
