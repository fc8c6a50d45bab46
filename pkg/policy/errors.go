package policy

import (
	"fmt"
	"strings"
)

// ConfigError reports an invalid threshold document. The reload that produced
// it is rejected as a whole; the previously active configuration stays in
// force.
type ConfigError struct {
	Source string   // Document source (file path or "inline")
	Errors []string // All validation failures found
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid threshold config %q: %s",
		e.Source, strings.Join(e.Errors, "; "))
}

// NewConfigError creates a new ConfigError.
func NewConfigError(source string, errors []string) *ConfigError {
	return &ConfigError{Source: source, Errors: errors}
}
