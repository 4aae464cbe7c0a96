package config

import (
	"errors"
	"fmt"
)

var (
	// ErrValidationFailed indicates a setting with an unusable value.
	ErrValidationFailed = errors.New("validation failed")

	// ErrFileNotFound indicates an explicitly requested config file is missing.
	ErrFileNotFound = errors.New("config file not found")
)

// ValidationError describes one invalid setting.
type ValidationError struct {
	Key     string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s = %v: %s", e.Key, e.Value, e.Message)
}

// Unwrap makes errors.Is(err, ErrValidationFailed) hold.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
