package event

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed interaction event. The event is skipped;
// validation failures never abort batch processing.
type ValidationError struct {
	EventID       string   // Event identifier, may be empty if missing
	MissingFields []string // Required fields absent from the record
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	id := e.EventID
	if id == "" {
		id = "<unknown>"
	}
	return fmt.Sprintf("invalid event %s: missing required fields: %s",
		id, strings.Join(e.MissingFields, ", "))
}

// NewValidationError creates a new ValidationError.
func NewValidationError(eventID string, missing []string) *ValidationError {
	return &ValidationError{
		EventID:       eventID,
		MissingFields: missing,
	}
}
