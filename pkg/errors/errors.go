// Package errors provides structured error types for depsync.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and HTTP surface
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes split into two groups. Recoverable codes describe input the
// reconciliation engine tolerates (a malformed coordinate is skipped, a
// dangling module reference still produces a node, an ambiguous family lookup
// answers "not found"). They are reported, never returned from a build.
// Fatal codes wrap failures of external collaborators and abort the build
// they occur in.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedCoordinate, "bad coordinate %q", text)
//	if errors.Is(err, errors.ErrCodeMalformedCoordinate) {
//	    // skip the entry
//	}
//
//	err := errors.Wrap(errors.ErrCodeCollaborator, origErr, "resolve %s", container)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidSnapshot Code = "INVALID_SNAPSHOT"

	// Reconciliation input that is tolerated by the engine
	ErrCodeMalformedCoordinate Code = "MALFORMED_COORDINATE"
	ErrCodeMalformedVersion    Code = "MALFORMED_VERSION"
	ErrCodeUnresolvedModule    Code = "UNRESOLVED_MODULE_REFERENCE"
	ErrCodeAmbiguousFamily     Code = "AMBIGUOUS_FAMILY_LOOKUP"

	// Resource not found errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeModuleNotFound Code = "MODULE_NOT_FOUND"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeCollaborator Code = "COLLABORATOR_FAILURE"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
	ErrCodeUnsupported  Code = "UNSUPPORTED"
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

// Recoverable reports whether err carries one of the codes the engine
// tolerates during a build pass.
func Recoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeMalformedCoordinate, ErrCodeMalformedVersion, ErrCodeUnresolvedModule, ErrCodeAmbiguousFamily:
		return true
	}
	return false
}
