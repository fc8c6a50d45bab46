package export

import (
	"context"
	"encoding/json"
	"io"

	"sentra-hq/minerva/pkg/compliance"
)

// JSONExporter exports compliance summaries to JSON format.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// Export writes the summary to the provided writer in JSON format.
func (e *JSONExporter) Export(_ context.Context, summary *compliance.Summary, w io.Writer) error {
	var (
		data []byte
		err  error
	)

	if e.Pretty {
		data, err = json.MarshalIndent(summary, "", "  ")
	} else {
		data, err = json.Marshal(summary)
	}
	if err != nil {
		return NewExportError("json", err)
	}

	if _, err := w.Write(data); err != nil {
		return NewExportError("json", err)
	}
	return nil
}
