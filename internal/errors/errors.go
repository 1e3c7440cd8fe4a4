// Package errors provides the structured error type (SeedKitError) used
// for category-based classification across the builder core, the plan
// loader, and the CLI.
package errors

import (
	"fmt"
)

// ErrorCategory classifies a SeedKit error.
type ErrorCategory string

const (
	// Builder lifecycle and relationship-graph errors
	CategoryState ErrorCategory = "state"
	CategoryGraph ErrorCategory = "graph"

	// User-facing configuration and input errors
	CategoryConfig ErrorCategory = "config"
	CategoryPlan   ErrorCategory = "plan"

	// External system integration errors
	CategoryPersist ErrorCategory = "persist"
	CategoryNotify  ErrorCategory = "notify"

	// Runtime and infrastructure errors
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// SeedKitError is a structured error with category and context.
type SeedKitError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for SeedKitError.
type ContextFields map[string]any

// Error implements the error interface.
func (e *SeedKitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling.
func (e *SeedKitError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *SeedKitError) WithContext(key string, value any) *SeedKitError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new SeedKitError.
func New(category ErrorCategory, severity ErrorSeverity, message string) *SeedKitError {
	return &SeedKitError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new SeedKitError that wraps an existing error.
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *SeedKitError {
	return &SeedKitError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// Newf creates a new SeedKitError with a formatted message.
func Newf(category ErrorCategory, severity ErrorSeverity, format string, args ...any) *SeedKitError {
	return New(category, severity, fmt.Sprintf(format, args...))
}

// IsCategory checks if an error belongs to a specific category.
func IsCategory(err error, category ErrorCategory) bool {
	if ske, ok := err.(*SeedKitError); ok {
		return ske.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns
// CategoryInternal if err is not a SeedKitError.
func GetCategory(err error) ErrorCategory {
	if ske, ok := err.(*SeedKitError); ok {
		return ske.Category
	}
	return CategoryInternal
}

// StateError creates a builder-lifecycle violation error (an operation
// was attempted against a builder in an illegal state).
func StateError(format string, args ...any) *SeedKitError {
	return Newf(CategoryState, SeverityError, format, args...)
}

// GraphError creates a relationship-graph violation error (a parent
// reference is in an invalid state for the requested operation).
func GraphError(format string, args ...any) *SeedKitError {
	return Newf(CategoryGraph, SeverityError, format, args...)
}

// PlanError creates a seed-plan validation error.
func PlanError(format string, args ...any) *SeedKitError {
	return Newf(CategoryPlan, SeverityError, format, args...)
}

// PersistError wraps a failure from the persistence collaborator.
func PersistError(err error, message string) *SeedKitError {
	return Wrap(err, CategoryPersist, SeverityError, message)
}
