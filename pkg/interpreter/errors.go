package interpreter

import (
	"errors"
	"fmt"
)

var (
	ErrNumberOperands   = errors.New("Expected number values")
	ErrNumberOperand    = errors.New("Expected number value")
	ErrBooleanOperand   = errors.New("Expected boolean value")
	ErrDivisionByZero   = errors.New("Division by zero is not allowed")
	ErrBounds           = errors.New("Lower and upper bounds must be numbers")
	ErrStep             = errors.New("The step should be a number.")
	ErrLoopVariable     = errors.New("The loop variable should be a number.")
	ErrNotCallable      = errors.New("Can only call functions.")
	ErrArity            = errors.New("wrong number of arguments")
	ErrTopLevelReturn   = errors.New("Cannot return from top-level code.")
	ErrCallDepthReached = errors.New("Maximum call depth exceeded.")
)

// RuntimeError is a failure raised while executing a program. Err is one of
// the sentinels above or a runtime.BindingError.
type RuntimeError struct {
	Line int
	Err  error
}

func (e *RuntimeError) Error() string { return e.Err.Error() }

func (e *RuntimeError) Unwrap() error { return e.Err }

// Position returns the line of the operator or identifier that failed.
func (e *RuntimeError) Position() int { return e.Line }

// ArityError reports a call with the wrong number of arguments.
type ArityError struct {
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("Expected %d arguments but got %d.", e.Want, e.Got)
}

func (e *ArityError) Unwrap() error { return ErrArity }

func runtimeError(line int, err error) error {
	var existing *RuntimeError
	if errors.As(err, &existing) {
		return err
	}
	return &RuntimeError{Line: line, Err: err}
}
