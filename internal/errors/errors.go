package errors

import (
	"fmt"
)

// ScoutError is the structured error type for setscout.
// It provides rich context for error handling, logging, and user presentation.
type ScoutError struct {
	// Code is the unique error code (e.g., "ERR_203_DECOMPRESSION_FAILED").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Store, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *ScoutError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ScoutError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with ScoutError.
func (e *ScoutError) Is(target error) bool {
	if t, ok := target.(*ScoutError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *ScoutError) WithDetail(key, value string) *ScoutError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new ScoutError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *ScoutError {
	return &ScoutError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a ScoutError from an existing error.
// The error's message becomes the ScoutError message.
func Wrap(code string, err error) *ScoutError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// IsFatal checks if an error has fatal severity.
// Fatal errors abort the current scan; everything else degrades to a
// per-file warning.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if se, ok := err.(*ScoutError); ok {
		return se.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a ScoutError.
// Returns empty string if not a ScoutError.
func GetCode(err error) string {
	if se, ok := err.(*ScoutError); ok {
		return se.Code
	}
	return ""
}
