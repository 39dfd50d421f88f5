// Package errors provides structured error types for licensetower.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the library packages
//   - Machine-readable error codes so callers can decide skip vs. abort
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into two groups. Fatal codes abort a run:
//   - MALFORMED_SUMMARY: a summary or override document cannot be parsed
//   - WRITE_SUMMARY: the summary output cannot be written
//   - INVALID_CONFIG: the configuration file or flags are unusable
//
// Recoverable codes are reported and the run continues:
//   - DESCRIPTOR_FAILED: a dependency descriptor could not be materialised
//   - INVALID_URL: a license URL cannot be parsed
//   - NOT_FOUND: a license URL points at a missing resource
//   - TRANSFER_FAILED: any other download failure
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidURL, "invalid license URL: %s", raw)
//	if errors.Is(err, errors.ErrCodeInvalidURL) {
//	    // skip this license
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransfer, origErr, "download %s", url)
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
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidCoordinate Code = "INVALID_COORDINATE"
	ErrCodeInvalidURL        Code = "INVALID_URL"

	// Summary document errors
	ErrCodeMalformedSummary Code = "MALFORMED_SUMMARY"
	ErrCodeWriteSummary     Code = "WRITE_SUMMARY"

	// Dependency descriptor errors
	ErrCodeDescriptor Code = "DESCRIPTOR_FAILED"

	// Transfer errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeTransfer Code = "TRANSFER_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
// It unwraps the error chain looking for an *Error with a matching code;
// the outermost coded error wins.
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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}
