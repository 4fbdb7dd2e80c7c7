// internal/errors/errors.go
package errors

import (
	"fmt"

	"jamplate/internal/document"
)

// Kind represents the type of error.
type Kind string

const (
	CompileError   Kind = "CompileError"
	ExecutionError Kind = "ExecutionError"
	IOError        Kind = "IOError"
	StateError     Kind = "StateError"
)

// Positioned is anything that can point at a range of a document. Trees
// satisfy it; errors carry the offending tree through it.
type Positioned interface {
	Document() document.Document
	Reference() document.Reference
}

// Error is an engine error with an optional source position.
type Error struct {
	Kind    Kind
	Message string
	At      Positioned // offending tree, may be nil
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.At != nil {
		msg += fmt.Sprintf(" (at %s)", e.At.Reference())
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// NewCompile returns a parse/analyze/compile time error pointing at the
// offending tree.
func NewCompile(message string, at Positioned) *Error {
	return &Error{Kind: CompileError, Message: message, At: at}
}

// NewCompilef is NewCompile with formatting.
func NewCompilef(at Positioned, format string, args ...any) *Error {
	return &Error{Kind: CompileError, Message: fmt.Sprintf(format, args...), At: at}
}

// NewExecution returns a runtime error pointing at the offending
// instruction's tree.
func NewExecution(message string, at Positioned) *Error {
	return &Error{Kind: ExecutionError, Message: message, At: at}
}

// NewExecutionf is NewExecution with formatting.
func NewExecutionf(at Positioned, format string, args ...any) *Error {
	return &Error{Kind: ExecutionError, Message: fmt.Sprintf(format, args...), At: at}
}

// NewIO wraps a document I/O failure.
func NewIO(message string, cause error) *Error {
	return &Error{Kind: IOError, Message: message, Cause: cause}
}

// NewState reports an operation on a value in the wrong state, such as
// content access on a deserialized document.
func NewState(message string, cause error) *Error {
	return &Error{Kind: StateError, Message: message, Cause: cause}
}

// IsKind reports whether err is an engine error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
