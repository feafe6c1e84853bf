// Package errors provides structured error types for testplot.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the pipeline
//   - Machine-readable error codes for programmatic handling
//   - Reporting of the offending file or directory with every failure
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The two codes a render can fail with are:
//   - STRUCTURE_ERROR: the test hierarchy on disk (or an explicit spec) is
//     malformed: missing descriptor, missing or unknown type, dangling sub
//     reference, or a collection mixing test cases and sub-collections.
//   - DATA_ERROR: a statistic file or descriptor needed while merging is
//     missing or unreadable.
//
// Both are fatal for the render in progress and are never retried: result
// directories are static, so a retry cannot change the outcome.
//
// # Usage
//
//	err := errors.Structure(dir, "missing type in metadata")
//	if errors.Is(err, errors.ErrCodeStructure) {
//	    // Handle malformed tree
//	}
//
//	// Wrap existing errors
//	err := errors.Data(path, origErr, "read statistic %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	ErrCodeStructure    Code = "STRUCTURE_ERROR"
	ErrCodeData         Code = "DATA_ERROR"
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeRender       Code = "RENDER_ERROR"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code, the offending path and an
// optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Path    string // File or directory the error refers to (optional)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
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

// Structure creates a STRUCTURE_ERROR for the given path.
func Structure(path, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeStructure,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
	}
}

// Data creates a DATA_ERROR for the given path. cause may be nil.
func Data(path string, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeData,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
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

// GetPath extracts the offending path from an error, if available.
func GetPath(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Path
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Path != "" {
			return fmt.Sprintf("%s: %s", e.Path, e.Message)
		}
		return e.Message
	}
	return err.Error()
}
