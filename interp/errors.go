package interp

import (
	"errors"
	"fmt"
)

// Error kinds. A failed Run returns an *EvalError whose Kind is one of
// these; match them with errors.Is.
var (
	ErrMalformedProgram   = errors.New("malformed program")
	ErrStackUnderflow     = errors.New("stack underflow")
	ErrDivisionByZero     = errors.New("division by zero")
	ErrConversion         = errors.New("conversion failed")
	ErrFunction           = errors.New("function call failed")
	ErrUnknownAttribute   = errors.New("unknown attribute reference")
	ErrUndefinedAttribute = errors.New("attribute has no value")
	ErrAlreadyRun         = errors.New("interpreter has already run")
)

// malformedClass lists the kinds that are also reported as
// ErrMalformedProgram.
func malformedClass(kind error) bool {
	switch kind {
	case ErrStackUnderflow, ErrUnknownAttribute, ErrFunction:
		return true
	}
	return false
}

// EvalError is the single error type returned by Run.
type EvalError struct {
	Kind error
	// PC is the index of the failing cell and Location its source offset.
	// Both are -1 for failures raised before execution starts.
	PC       int
	Location int
	Op       string
	Msg      string
	// Cause holds the function's own error for ErrFunction. It is kept for
	// display and is deliberately not returned by Unwrap.
	Cause error
}

func (e *EvalError) Error() string {
	if e.PC < 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s at offset %d (cell %d, %s): %s", e.Kind, e.Location, e.PC, e.Op, e.Msg)
}

func (e *EvalError) Is(target error) bool {
	if target == e.Kind {
		return true
	}
	return target == ErrMalformedProgram && malformedClass(e.Kind)
}

func fail(kind error, format string, args ...any) *EvalError {
	return &EvalError{
		Kind:     kind,
		PC:       -1,
		Location: -1,
		Msg:      fmt.Sprintf(format, args...),
	}
}
