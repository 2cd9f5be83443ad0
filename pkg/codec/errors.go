package codec

import (
	"errors"
	"fmt"
)

// ErrTruncated is returned when the input ends before a declared field.
var ErrTruncated = errors.New("truncated input")

// ErrMalformed is returned when a field holds an impossible value.
var ErrMalformed = errors.New("malformed input")

// DecodeError reports where decoding failed.
type DecodeError struct {
	Offset int
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
