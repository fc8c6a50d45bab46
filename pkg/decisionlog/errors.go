package decisionlog

import "fmt"

// StorageError indicates a decision log backend failure.
type StorageError struct {
	Backend string // Backend type ("memory", "sqlite")
	Op      string // Operation that failed
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("decision log %s %s failed: %v", e.Backend, e.Op, e.Cause)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, op string, cause error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Cause: cause}
}
