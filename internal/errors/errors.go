package errors

import (
	"fmt"
)

// FolioError is the structured error type for folio.
// It provides context for error handling, logging, and API responses.
type FolioError struct {
	// Code is the unique error code (e.g., "ERR_203_HISTORY_IO").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Network, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried by the caller.
	Retryable bool
}

// Error implements the error interface.
func (e *FolioError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *FolioError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
func (e *FolioError) Is(target error) bool {
	if t, ok := target.(*FolioError); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new FolioError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *FolioError {
	return &FolioError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a FolioError from an existing error.
// The error's message becomes the FolioError message.
func Wrap(code string, err error) *FolioError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ProviderError creates an embedding-provider error. Provider errors are
// retryable and absorbed at the matcher boundary (fail-soft).
func ProviderError(message string, cause error) *FolioError {
	return New(ErrCodeProviderUnavailable, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *FolioError {
	return New(ErrCodeInvalidInput, message, cause)
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if fe, ok := err.(*FolioError); ok {
		return fe.Retryable
	}
	return false
}

// GetCode extracts the error code from a FolioError.
// Returns empty string if not a FolioError.
func GetCode(err error) string {
	if fe, ok := err.(*FolioError); ok {
		return fe.Code
	}
	return ""
}

// GetCategory extracts the category from a FolioError.
// Returns empty string if not a FolioError.
func GetCategory(err error) Category {
	if fe, ok := err.(*FolioError); ok {
		return fe.Category
	}
	return ""
}
