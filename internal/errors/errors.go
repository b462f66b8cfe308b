// Package errors provides a lightweight structured error type (CankitError)
// for category-based classification at the CLI boundary.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a cankit error for classification.
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Toolchain resolution and installation errors
	CategoryToolchain ErrorCategory = "toolchain"

	// Build pipeline errors
	CategoryBuild      ErrorCategory = "build"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Watch mode errors
	CategoryWatch ErrorCategory = "watch"

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

// CankitError is a structured error with category and context.
type CankitError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for CankitError.
type ContextFields map[string]any

// Error implements the error interface.
func (e *CankitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling.
func (e *CankitError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *CankitError) WithContext(key string, value any) *CankitError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new CankitError.
func New(category ErrorCategory, severity ErrorSeverity, message string) *CankitError {
	return &CankitError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new CankitError that wraps an existing error.
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *CankitError {
	return &CankitError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category.
func IsCategory(err error, category ErrorCategory) bool {
	if ce, ok := err.(*CankitError); ok {
		return ce.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns
// CategoryInternal if not a CankitError.
func GetCategory(err error) ErrorCategory {
	if ce, ok := err.(*CankitError); ok {
		return ce.Category
	}
	return CategoryInternal
}
