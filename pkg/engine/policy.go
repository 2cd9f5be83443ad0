package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Policy decides what happens when the machine reads a symbol for which
// the current state has no transition.
type Policy uint8

const (
	// PolicyStrict halts the machine as rejected.
	PolicyStrict Policy = iota
	// PolicyPermissive leaves the machine active and does nothing.
	PolicyPermissive
)

func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicyPermissive:
		return "permissive"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ErrUnknownPolicy is returned by ParsePolicy for unrecognized names.
var ErrUnknownPolicy = errors.New("unknown undefined-transition policy")

// ParsePolicy parses "strict" or "permissive". The empty string is strict.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return PolicyStrict, nil
	case "permissive":
		return PolicyPermissive, nil
	default:
		return PolicyStrict, fmt.Errorf("%w %q", ErrUnknownPolicy, s)
	}
}
