package export

import "fmt"

// ExportError indicates an export failure.
type ExportError struct {
	Format string // Export format ("json", "csv")
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("%s export failed: %v", e.Format, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format string, cause error) *ExportError {
	return &ExportError{Format: format, Cause: cause}
}
