package errors

import (
	"fmt"
)

// PhoenixError is the structured error type for AstroPhoenix.
// It provides rich context for error handling, logging, and user presentation.
type PhoenixError struct {
	// Code is the unique error code (e.g., "ERR_301_MANIFEST_UNAVAILABLE").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Network, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool
}

// Error implements the error interface.
func (e *PhoenixError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *PhoenixError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with PhoenixError.
func (e *PhoenixError) Is(target error) bool {
	if t, ok := target.(*PhoenixError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *PhoenixError) WithDetail(key, value string) *PhoenixError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new PhoenixError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *PhoenixError {
	return &PhoenixError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a PhoenixError from an existing error.
// The error's message becomes the PhoenixError message.
func Wrap(code string, err error) *PhoenixError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *PhoenixError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// ManifestError creates a manifest-fetch error.
// Manifest errors are fatal to the indexing session.
func ManifestError(message string, cause error) *PhoenixError {
	return New(ErrCodeManifestUnavailable, message, cause)
}

// FetchError creates a per-document fetch error.
// Fetch errors are absorbed by the indexer and never abort a run.
func FetchError(message string, cause error) *PhoenixError {
	return New(ErrCodeDocumentFetchFailed, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *PhoenixError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *PhoenixError {
	return New(ErrCodeInternal, message, cause)
}

// IsRetryable checks if an error is retryable.
// Returns true if the error is a PhoenixError with Retryable flag set.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if pe, ok := err.(*PhoenixError); ok {
		return pe.Retryable
	}
	return false
}

// IsFatal checks if an error has fatal severity.
// Fatal errors abort the indexing session.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if pe, ok := err.(*PhoenixError); ok {
		return pe.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a PhoenixError.
// Returns empty string if not a PhoenixError.
func GetCode(err error) string {
	if pe, ok := err.(*PhoenixError); ok {
		return pe.Code
	}
	return ""
}

// GetCategory extracts the category from a PhoenixError.
// Returns empty string if not a PhoenixError.
func GetCategory(err error) Category {
	if pe, ok := err.(*PhoenixError); ok {
		return pe.Category
	}
	return ""
}
