// Package errors defines the typed errors shared by the core, the adapters and
// the API. A Type doubles as a sentinel, so both IsType(err, TypeInput) and
// errors.Is(err, TypeInput) work through any amount of %w wrapping.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type classifies an error. The API maps it onto an HTTP status.
type Type string

const (
	// TypeInput is a bad quantity, size, label or flag from the caller
	TypeInput Type = "INPUT_ERROR"

	// TypeParsing is an order file, archive record or body that would not parse
	TypeParsing Type = "PARSING_ERROR"

	TypeConfig   Type = "CONFIG_ERROR"
	TypeInternal Type = "INTERNAL_ERROR"

	// TypeNotFound is an unknown catalogue entry or archived order
	TypeNotFound Type = "NOT_FOUND"
)

// Error makes a Type usable as an errors.Is target.
func (t Type) Error() string { return string(t) }

// Error is a typed error with optional cause and context
type Error struct {
	Type    Type
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches a Type target against e.Type.
func (e *Error) Is(target error) bool {
	t, ok := target.(Type)
	return ok && t == e.Type
}

// WithContext attaches a detail for logs and API consumers.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any, 1)
	}
	e.Context[key] = value
	return e
}

func New(t Type, message string) *Error {
	return &Error{Type: t, Message: message}
}

func Newf(t Type, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

func Wrap(t Type, message string, cause error) *Error {
	return &Error{Type: t, Message: message, Cause: cause}
}

// IsType reports whether err wraps an Error of type t.
func IsType(err error, t Type) bool {
	return stderrors.Is(err, t)
}

// TypeOf returns the type of the outermost Error in err's chain. Errors from
// outside this package are TypeInternal.
func TypeOf(err error) Type {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return TypeInternal
}

func Input(message string) *Error { return New(TypeInput, message) }

func Inputf(format string, args ...any) *Error { return Newf(TypeInput, format, args...) }

func Parsing(message string, cause error) *Error { return Wrap(TypeParsing, message, cause) }

func Config(message string, cause error) *Error { return Wrap(TypeConfig, message, cause) }

// NotFound reports a missing resource, e.g. NotFound("wet size", "quart").
func NotFound(resource, id string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resource, id)
}
