package classifier

import "fmt"

// ClassificationError reports a detector-level failure on malformed or
// unparseable input. It is never returned for "no risk found"; absence of
// risk is a zero-confidence score.
type ClassificationError struct {
	EventID  string       // Event being classified
	Category RiskCategory // Failing category, empty for input-level failures
	Cause    error        // Underlying error
}

// Error implements the error interface.
func (e *ClassificationError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("classification error [event=%s, category=%s]: %v",
			e.EventID, e.Category, e.Cause)
	}
	return fmt.Sprintf("classification error [event=%s]: %v", e.EventID, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ClassificationError) Unwrap() error {
	return e.Cause
}

// NewClassificationError creates a new ClassificationError.
func NewClassificationError(eventID string, category RiskCategory, cause error) *ClassificationError {
	return &ClassificationError{
		EventID:  eventID,
		Category: category,
		Cause:    cause,
	}
}
