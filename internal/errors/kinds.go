package errors

import (
	"errors"
	"fmt"
)

// sentinels for errors.Is checks against a kind
var (
	ErrConfig     = &Error{Kind: KindConfig}
	ErrGeneration = &Error{Kind: KindGeneration}
	ErrEmptyCode  = &Error{Kind: KindEmptyCode}
	ErrExecution  = &Error{Kind: KindExecution}
)

func (e *Error) Error() string {
	switch {
	case e.Err == nil && e.Op == "":
		return string(e.Kind) + " error"
	case e.Err == nil:
		return e.Op
	case e.Op == "":
		return e.Err.Error()
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// matches any *Error of the same kind when the target carries no cause
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Err == nil && t.Op == "" && t.Kind == e.Kind
}

// wraps err with a kind and operation
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// builds a config error from a format string
func Config(op, format string, args ...any) *Error {
	return New(KindConfig, op, fmt.Errorf(format, args...))
}

// wraps a provider transport or envelope failure
func Generation(op string, err error) *Error {
	return New(KindGeneration, op, err)
}

// returns the kind of err, or "" when err carries none
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ""
}

// reports whether a failure of this kind may be retried within a run.
// generation and config failures are terminal.
func Retryable(kind Kind) bool {
	switch kind {
	case KindEmptyCode, KindExecution:
		return true
	default:
		return false
	}
}
