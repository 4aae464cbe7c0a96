// Package app wires configuration, canvas, engine, scripts and the host
// loop into a running editor.
package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrInitialization indicates a setup failure; the editor does not start.
	ErrInitialization = errors.New("initialization failed")

	// ErrQuit is returned by Run when the editor was asked to quit.
	ErrQuit = errors.New("quit requested")

	// ErrNoHost indicates Run was called without a host.
	ErrNoHost = errors.New("no host")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op      string // Operation name (e.g., "load keymap", "source")
	Target  string // Target of the operation (e.g., file path)
	Context string // Additional context
	Err     error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

// WithContext adds context to the error.
// Safe to call on nil receiver - returns nil.
func (e *OperationError) WithContext(ctx string) *OperationError {
	if e == nil {
		return nil
	}
	e.Context = ctx
	return e
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	var msg string
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	} else {
		msg = e.Op
	}

	if e.Context != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Context)
	}

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// initError wraps a setup failure so that it matches both
// ErrInitialization and the underlying cause.
func initError(op, target string, err error) error {
	return fmt.Errorf("%w: %w", ErrInitialization, NewOperationError(op, target, err))
}
