// Package errors provides structured error types for the balleat application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the batch runner
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - GENERATION_*: Instance construction failures
//   - ENCODER_*: Video encoding backend problems
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "growth factor must be > 1, got %v", g)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Generation errors
	ErrCodeGenerationFailed Code = "GENERATION_FAILED"

	// Encoder errors
	ErrCodeEncoderUnavailable Code = "ENCODER_UNAVAILABLE"
	ErrCodeEncoderFailed      Code = "ENCODER_FAILED"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// AttemptsExhaustedError reports a construct-then-verify loop that gave up.
// It unwraps to a GENERATION_FAILED *Error so callers can match either way.
type AttemptsExhaustedError struct {
	Attempts int   // Number of attempts made
	Last     error // Failure reported by the final attempt
}

// Error implements the error interface.
func (e *AttemptsExhaustedError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("generation failed after %d attempts: %v", e.Attempts, e.Last)
	}
	return fmt.Sprintf("generation failed after %d attempts", e.Attempts)
}

// Unwrap exposes the coded error for Is/GetCode.
func (e *AttemptsExhaustedError) Unwrap() error {
	return Wrap(ErrCodeGenerationFailed, e.Last, "exhausted %d attempts", e.Attempts)
}

// Code returns the error code for this error type.
func (e *AttemptsExhaustedError) Code() Code {
	return ErrCodeGenerationFailed
}
