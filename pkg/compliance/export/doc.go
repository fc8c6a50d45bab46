// Package export serializes compliance summaries for auditors.
//
// Two formats are provided: JSON for programmatic consumption and CSV for
// spreadsheet review. Exporters are read-only over their input and write to
// any io.Writer.
package export
