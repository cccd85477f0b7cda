// Package attn structured error types for better error handling
package attn

import (
	"errors"
	"fmt"
)

// ErrorType represents categories of errors
type ErrorType int

const (
	// Invalid argument errors (shape/precondition violations)
	ErrTypeInvalidArg ErrorType = iota
	// Execution errors (kernel launch failures)
	ErrTypeExecution
	// Strategy errors (unsupported execution strategy)
	ErrTypeStrategy
	// Numerical errors
	ErrTypeNumerical
)

// KernelError represents a structured error with context
type KernelError struct {
	Type    ErrorType
	Op      string // Operation that failed
	Message string // Human-readable message
	Err     error  // Underlying error if any
}

// Error implements the error interface
func (e *KernelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("attn %s error in %s: %s (caused by: %v)",
			e.Type.String(), e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("attn %s error in %s: %s",
		e.Type.String(), e.Op, e.Message)
}

// Unwrap allows error chain inspection
func (e *KernelError) Unwrap() error {
	return e.Err
}

// String returns the error type as a string
func (t ErrorType) String() string {
	switch t {
	case ErrTypeInvalidArg:
		return "InvalidArgument"
	case ErrTypeExecution:
		return "Execution"
	case ErrTypeStrategy:
		return "Strategy"
	case ErrTypeNumerical:
		return "Numerical"
	default:
		return "Unknown"
	}
}

// Common error constructors

// NewInvalidArgError creates an invalid argument error
func NewInvalidArgError(op string, message string) error {
	return &KernelError{
		Type:    ErrTypeInvalidArg,
		Op:      op,
		Message: message,
	}
}

// NewExecutionError creates an execution error
func NewExecutionError(op string, message string, err error) error {
	return &KernelError{
		Type:    ErrTypeExecution,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// NewStrategyError creates an unsupported-strategy error
func NewStrategyError(op string, message string) error {
	return &KernelError{
		Type:    ErrTypeStrategy,
		Op:      op,
		Message: message,
	}
}

// IsInvalidArgError checks if an error is an invalid argument error,
// looking through any wrapping added along the way.
func IsInvalidArgError(err error) bool {
	var e *KernelError
	if errors.As(err, &e) {
		return e.Type == ErrTypeInvalidArg
	}
	return false
}

// IsStrategyError checks if an error is an unsupported-strategy error,
// looking through any wrapping added along the way.
func IsStrategyError(err error) bool {
	var e *KernelError
	if errors.As(err, &e) {
		return e.Type == ErrTypeStrategy
	}
	return false
}
