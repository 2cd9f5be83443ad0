package domain

import "fmt"

// StateID identifies a state within a Configuration.
type StateID = uint64

// Acceptance classifies a state as neutral, accepting or rejecting.
type Acceptance uint8

const (
	AcceptNone Acceptance = iota
	Accept
	Reject
)

func (a Acceptance) String() string {
	switch a {
	case AcceptNone:
		return "none"
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	default:
		return fmt.Sprintf("acceptance(%d)", uint8(a))
	}
}

// Valid reports whether a is one of the known tags.
func (a Acceptance) Valid() bool { return a <= Reject }

// Action is the head movement performed after writing the output symbol.
type Action uint8

const (
	ActionNone Action = iota
	MoveLeft
	MoveRight
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case MoveLeft:
		return "MoveLeft"
	case MoveRight:
		return "MoveRight"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool { return a <= MoveRight }

// Offset returns the head displacement of the action.
func (a Action) Offset() int64 {
	switch a {
	case MoveLeft:
		return -1
	case MoveRight:
		return 1
	default:
		return 0
	}
}

// Status is the halt status of an execution.
type Status uint8

const (
	StatusActive Status = iota
	StatusHaltedAccept
	StatusHaltedReject
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusHaltedAccept:
		return "halted_accept"
	case StatusHaltedReject:
		return "halted_reject"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// StatusFor maps the acceptance tag of a freshly entered state to the
// resulting execution status.
func StatusFor(a Acceptance) Status {
	switch a {
	case Accept:
		return StatusHaltedAccept
	case Reject:
		return StatusHaltedReject
	default:
		return StatusActive
	}
}

// MarshalText renders the status name in JSON and YAML output.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// MarshalText renders the action name in JSON and YAML output.
func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
