// Package pamaerr defines the error taxonomy of the pama engine.
//
// Compile-time errors are SyntaxError (the pattern template uses a construct
// outside the accepted sub-grammar) and ValidationError (the template parses
// but violates a pattern invariant). ExhaustionError is the only runtime
// error raised by the engine itself: a match block ran out of clauses.
// An ordinary structural mismatch is never an error.
package pamaerr

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrorType defines the category of the error.
type ErrorType string

const (
	TypeSyntax     ErrorType = "PatternSyntaxError"
	TypeValidation ErrorType = "PatternValidationError"
	TypeExhaustion ErrorType = "MatchExhaustionFailure"
)

// PamaError is the interface for all pama-related errors.
type PamaError interface {
	error
	Type() ErrorType
}

// BaseError provides common fields for pama errors.
type BaseError struct {
	Msg     string
	ErrType ErrorType
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

func (e *BaseError) Type() ErrorType {
	return e.ErrType
}

// SyntaxError reports a pattern template construct outside the accepted
// sub-grammar. Compilation stops at the first one; there is no partial
// compilation.
type SyntaxError struct {
	BaseError
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d:%d %s", e.ErrType, e.Line, e.Column, e.Msg)
	}
	return e.BaseError.Error()
}

// ValidationError reports a structurally parseable pattern that violates an
// invariant: duplicate bound name, binding inside an alternation, mixed
// positional and named deconstruction slots, or un-anchored adjacent
// rest-patterns.
type ValidationError struct {
	BaseError
}

// ExhaustionError is raised when a match block exhausts all clauses without
// a match. Standalone clause sequences never raise it.
type ExhaustionError struct {
	BaseError
	Subject any
}

func (e *ExhaustionError) Error() string {
	return fmt.Sprintf("[%s] no matching pattern found for %#v", e.ErrType, e.Subject)
}

// NewSyntaxError creates a SyntaxError without position information.
func NewSyntaxError(msg string) *SyntaxError {
	return &SyntaxError{
		BaseError: BaseError{Msg: msg, ErrType: TypeSyntax},
	}
}

// NewSyntaxErrorAt creates a SyntaxError with line and column position.
func NewSyntaxErrorAt(line, column int, msg string) *SyntaxError {
	return &SyntaxError{
		BaseError: BaseError{Msg: msg, ErrType: TypeSyntax},
		Line:      line,
		Column:    column,
	}
}

// NewValidationError creates a ValidationError.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{
		BaseError: BaseError{Msg: msg, ErrType: TypeValidation},
	}
}

// NewExhaustionError creates an ExhaustionError for the given subject.
func NewExhaustionError(subject any) *ExhaustionError {
	return &ExhaustionError{
		BaseError: BaseError{ErrType: TypeExhaustion},
		Subject:   subject,
	}
}

// Wrapf annotates err with additional context, preserving its concrete type
// for As/Is introspection.
func Wrapf(err error, format string, args ...any) error {
	return errors.Wrapf(err, format, args...)
}

// IsSyntax reports whether err is, or wraps, a SyntaxError.
func IsSyntax(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsExhaustion reports whether err is, or wraps, an ExhaustionError.
func IsExhaustion(err error) bool {
	var ee *ExhaustionError
	return errors.As(err, &ee)
}
