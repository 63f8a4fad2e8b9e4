// Package toolerr defines five error kinds: ParseError, SemanticError,
// IOError, RuntimeError, UsageError. Each carries an offending-context
// string so the caller can print a single-line "<context>: Error:
// <message>" form, with no stack trace and no color.
package toolerr

import "fmt"

// Kind distinguishes the five error categories.
type Kind int

const (
	Parse Kind = iota
	Semantic
	IO
	Runtime
	Usage
)

func (k Kind) String() string {
	switch k {
	case Parse:
		return "ParseError"
	case Semantic:
		return "SemanticError"
	case IO:
		return "IOError"
	case Runtime:
		return "RuntimeError"
	case Usage:
		return "UsageError"
	default:
		return "Error"
	}
}

// Error is a typed tool error: a kind, the offending context (a line
// number, section name, command name, etc.), a human message, and an
// optional wrapped cause.
type Error struct {
	Kind    Kind
	Context string
	Message string
	Cause   error
}

// New builds an Error with no wrapped cause.
func New(kind Kind, context, message string) *Error {
	return &Error{Kind: kind, Context: context, Message: message}
}

// Wrap builds an Error that wraps an underlying cause.
func Wrap(kind Kind, context, message string, cause error) *Error {
	return &Error{Kind: kind, Context: context, Message: message, Cause: cause}
}

// Error implements error, producing the user-visible line
// "<context>: Error: <message>".
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: Error: %s: %v", e.Context, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: Error: %s", e.Context, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}
