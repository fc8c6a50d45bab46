package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"sentra-hq/minerva/pkg/compliance"
)

// CSVExporter exports compliance summaries to CSV format, one row per
// control. Nested structures flatten: sample event IDs become a
// semicolon-separated string.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// Export writes the summary's control evidence to the provided writer in
// CSV format.
func (e *CSVExporter) Export(_ context.Context, summary *compliance.Summary, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		header := []string{
			"control_id",
			"iso_clause",
			"control_name",
			"evidence_count",
			"compliance_status",
			"sample_events",
		}
		if err := writer.Write(header); err != nil {
			return NewExportError("csv", err)
		}
	}

	for _, control := range summary.Controls {
		row := []string{
			control.ControlID,
			control.Clause,
			control.ControlName,
			strconv.Itoa(control.EvidenceCount),
			control.Status,
			strings.Join(control.SampleEvents, ";"),
		}
		if err := writer.Write(row); err != nil {
			return NewExportError("csv", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return NewExportError("csv", err)
	}
	return nil
}
