package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedCommand indicates a structurally invalid token sequence.
	ErrMalformedCommand = errors.New("malformed command")
	// ErrUnparsableNumber indicates a required number is missing, non-numeric or out of range.
	ErrUnparsableNumber = errors.New("unparsable number")
	// ErrConflict indicates modifiers that cannot be combined, such as advantage with keep-high.
	ErrConflict = errors.New("conflicting limits")
)

// Kind classifies a parse failure.
type Kind int

const (
	MalformedCommand Kind = iota
	UnparsableNumber
	Conflict
)

func (k Kind) sentinel() error {
	switch k {
	case UnparsableNumber:
		return ErrUnparsableNumber
	case Conflict:
		return ErrConflict
	default:
		return ErrMalformedCommand
	}
}

// Message is the line shown to the user for this kind of failure.
func (k Kind) Message() string {
	switch k {
	case UnparsableNumber:
		return "Invalid input: unparsable number"
	case Conflict:
		return "Invalid input; conflicting limits"
	default:
		return "Invalid input: malformed command"
	}
}

func (k Kind) String() string {
	return k.sentinel().Error()
}

// Error is returned by Parse and ParseLine. It unwraps to one of the Err* sentinels.
type Error struct {
	Kind   Kind
	Input  string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %q", e.Kind, e.Input)
	}
	return fmt.Sprintf("%s: %s in %q", e.Kind, e.Detail, e.Input)
}

func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}

func newError(kind Kind, input, format string, args ...any) *Error {
	return &Error{Kind: kind, Input: input, Detail: fmt.Sprintf(format, args...)}
}

// MapError takes any error produced while handling a line and returns the message
// to print on the error stream.
func MapError(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind.Message()
	}
	switch {
	case errors.Is(err, ErrUnparsableNumber):
		return UnparsableNumber.Message()
	case errors.Is(err, ErrConflict):
		return Conflict.Message()
	}
	return MalformedCommand.Message()
}
