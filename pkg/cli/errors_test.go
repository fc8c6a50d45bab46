package cli

import (
	"errors"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "queue.sla",
		Message: "must be positive",
	}

	expected := "config error in queue.sla: must be positive"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestConfigErrorNoField(t *testing.T) {
	err := NewConfigError("", "failed to load config")

	expected := "config error: failed to load config"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandError(t *testing.T) {
	underlying := errors.New("storage unavailable")
	err := NewCommandError("report", underlying)

	expected := "command report failed: storage unavailable"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is() should reach the wrapped error through Unwrap()")
	}
}
