package domain

import (
	"errors"
	"fmt"
)

// ErrStateNotFound is returned when a state id is not part of the Configuration.
var ErrStateNotFound = errors.New("state not found")

// ErrTransitionNotFound is returned when no transition matches a (state, symbol) pair.
var ErrTransitionNotFound = errors.New("transition not found")

// ErrInvalidArgument is returned when a record's declared id does not match the key it is stored under.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrEmptyTape is returned by dense tape views when no cell holds a non-blank symbol.
var ErrEmptyTape = errors.New("empty tape")

// ValidationError represents a single structural problem in a Configuration.
type ValidationError struct {
	State  StateID // State the problem was found on
	Reason string  // Human-readable reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("state %d: %s", e.State, e.Reason)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error { return e.Errors }

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
