// Package errdefs defines the structured error type used at package
// boundaries. Every error carries a stable code so callers can branch
// on failure class without string matching.
package errdefs

import (
	"errors"
	"fmt"
)

// Code identifies an error class.
type Code string

const (
	// E1xx: input errors
	CodeNotFound   Code = "E101"
	CodeEmptyInput Code = "E102"
	CodeWrongType  Code = "E103"
	CodeParse      Code = "E104"

	// E2xx: portal and network errors
	CodePortal   Code = "E201"
	CodeDownload Code = "E202"

	// E3xx: configuration errors
	CodeConfig Code = "E301"

	// E4xx: storage errors
	CodeStore Code = "E401"

	// E9xx: internal errors
	CodeInternal Code = "E999"
)

// Error is a coded error with optional context values.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// WithContext attaches a key/value pair and returns the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps a cause with a code and message. Returns nil for a nil
// cause so call sites can wrap unconditionally.
func Wrap(cause error, code Code, message string) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf wraps a cause with a formatted message.
func Wrapf(cause error, code Code, format string, args ...any) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsCode reports whether err (or anything it wraps) carries the code.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// GetCode extracts the code from err, or CodeInternal when it has none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
