// Package errors provides a lightweight structured error type (DocGraphError)
// for category-based classification of fatal generation failures and their
// presentation in the CLI.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a DocGraph error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryIndex      ErrorCategory = "index"
	CategoryValidation ErrorCategory = "validation"

	// Document tree and output errors
	CategoryDocument   ErrorCategory = "document"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// DocGraphError is a structured error with category, severity and context
type DocGraphError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for DocGraphError
type ContextFields map[string]any

// Error implements the error interface
func (e *DocGraphError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *DocGraphError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *DocGraphError) WithContext(key string, value any) *DocGraphError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new DocGraphError
func New(category ErrorCategory, severity ErrorSeverity, message string) *DocGraphError {
	return &DocGraphError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new DocGraphError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *DocGraphError {
	return &DocGraphError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As extracts the outermost DocGraphError from an error chain.
func As(err error) (*DocGraphError, bool) {
	var dge *DocGraphError
	if stderrors.As(err, &dge) {
		return dge, true
	}
	return nil, false
}

// IsCategory checks if an error (or anything it wraps) belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if dge, ok := As(err); ok {
		return dge.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a DocGraphError
func GetCategory(err error) ErrorCategory {
	if dge, ok := As(err); ok {
		return dge.Category
	}
	return CategoryInternal
}
