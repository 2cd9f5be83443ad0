package engine

import (
	"errors"
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
)

// ErrNotInitialized is returned by Step before Initialize has loaded a tape.
var ErrNotInitialized = errors.New("machine not initialized")

// Option configures a Machine.
type Option[S comparable] func(*Machine[S])

// WithHooks registers execution observers. Multiple calls accumulate.
func WithHooks[S comparable](h Hooks[S]) Option[S] {
	return func(m *Machine[S]) {
		m.hooks = MergeHooks(m.hooks, h)
	}
}

// WithTapeHooks registers tape read/write observers.
func WithTapeHooks[S comparable](h tape.Hooks[S]) Option[S] {
	return func(m *Machine[S]) {
		m.tapeHooks = append(m.tapeHooks, h)
	}
}

// Machine is one execution of a Configuration.
type Machine[S comparable] struct {
	conf      *domain.Configuration[S]
	tape      *tape.Tape[S]
	tapeHooks []tape.Hooks[S]
	policy    Policy
	hooks     Hooks[S]

	state       domain.State[S]
	addr        int64
	status      domain.Status
	steps       uint64
	initialized bool
	haltSent    bool
}

// New creates a machine positioned on the start state of conf. It fails
// with domain.ErrStateNotFound when the start state is not defined.
// The machine is not runnable until Initialize is called.
func New[S comparable](conf *domain.Configuration[S], blank S, policy Policy, opts ...Option[S]) (*Machine[S], error) {
	if conf == nil {
		return nil, fmt.Errorf("%w: nil configuration", domain.ErrInvalidArgument)
	}
	start, err := conf.State(conf.StartState())
	if err != nil {
		return nil, fmt.Errorf("start state: %w", err)
	}
	m := &Machine[S]{
		conf:   conf,
		policy: policy,
		state:  start,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.tape = tape.New(blank, m.tapeHooks...)
	return m, nil
}

// Initialize resets the machine to the start state with the head at
// address 0, loads symbols starting at address 0 and makes the machine
// active.
func (m *Machine[S]) Initialize(symbols []S) {
	if start, err := m.conf.State(m.conf.StartState()); err == nil {
		m.state = start
	}
	m.tape.Clear()
	m.tape.Load(0, symbols)
	m.addr = 0
	m.steps = 0
	m.status = domain.StatusActive
	m.haltSent = false
	m.initialized = true
}

// Step performs a single transition. It is a no-op once the machine has
// halted. An undefined transition, including one whose target state does
// not exist, is resolved by the policy and is not reported as an error.
func (m *Machine[S]) Step() error {
	if !m.initialized {
		return ErrNotInitialized
	}
	if m.status != domain.StatusActive {
		return nil
	}

	read := m.tape.Read(m.addr)
	t, err := m.conf.Transition(m.state.ID(), read)
	var next domain.State[S]
	if err == nil {
		next, err = m.conf.State(t.Target())
	}
	if err != nil {
		if m.hooks.OnUndefined != nil {
			m.hooks.OnUndefined(UndefinedEvent[S]{State: m.state.ID(), Address: m.addr, Symbol: read, Err: err})
		}
		if m.policy == PolicyStrict {
			m.status = domain.StatusHaltedReject
		}
		m.notifyHalt()
		return nil
	}

	at := m.addr
	m.tape.Write(at, t.Output())
	m.addr += t.Action().Offset()
	m.steps++

	if m.hooks.OnTransition != nil {
		m.hooks.OnTransition(TransitionEvent[S]{
			Step:    m.steps,
			From:    m.state.ID(),
			To:      next.ID(),
			Address: at,
			Read:    read,
			Written: t.Output(),
			Action:  t.Action(),
		})
	}

	m.state = next
	m.status = domain.StatusFor(next.Acceptance())
	m.notifyHalt()
	return nil
}

func (m *Machine[S]) notifyHalt() {
	if m.status == domain.StatusActive || m.haltSent {
		return
	}
	m.haltSent = true
	if m.hooks.OnHalt != nil {
		m.hooks.OnHalt(HaltEvent{Status: m.status, State: m.state.ID(), Address: m.addr, Steps: m.steps})
	}
}

// HasHalted reports the historical halted predicate: under PolicyStrict it
// is status != active, under PolicyPermissive it is status == active.
// Callers that need the real halt condition should use Status. Like Status,
// it is only meaningful once Initialized reports true.
func (m *Machine[S]) HasHalted() bool {
	if m.policy == PolicyPermissive {
		return m.status == domain.StatusActive
	}
	return m.status != domain.StatusActive
}

// Status returns the halt status. Before Initialize it is the zero
// Status, StatusActive, even though Step cannot run yet; callers that may
// hold a fresh machine must check Initialized first.
func (m *Machine[S]) Status() domain.Status { return m.status }

// Initialized reports whether Initialize has been called.
func (m *Machine[S]) Initialized() bool { return m.initialized }

// Policy returns the undefined-transition policy.
func (m *Machine[S]) Policy() Policy { return m.policy }

// Configuration returns the configuration driving the machine.
func (m *Machine[S]) Configuration() *domain.Configuration[S] { return m.conf }

// State returns the current state record.
func (m *Machine[S]) State() domain.State[S] { return m.state }

// StateID returns the current state id.
func (m *Machine[S]) StateID() domain.StateID { return m.state.ID() }

// Address returns the head address.
func (m *Machine[S]) Address() int64 { return m.addr }

// Steps returns the number of transitions taken since Initialize.
func (m *Machine[S]) Steps() uint64 { return m.steps }

// Tape returns a read-only view of the tape.
func (m *Machine[S]) Tape() tape.View[S] { return m.tape }

// Window returns the 2*radius+1 cells centered on the head.
func (m *Machine[S]) Window(radius int) []S { return m.tape.Window(m.addr, radius) }

// AvailableTransitions lists the transitions of the current state.
func (m *Machine[S]) AvailableTransitions() []domain.Transition[S] {
	if s, err := m.conf.State(m.state.ID()); err == nil {
		return s.Transitions()
	}
	return m.state.Transitions()
}

// Snapshot is a serializable summary of the observable execution state.
type Snapshot struct {
	State   domain.StateID `json:"state"`
	Address int64          `json:"address"`
	Status  string         `json:"status"`
	Steps   uint64         `json:"steps"`
}

// Snapshot returns the current observable state.
func (m *Machine[S]) Snapshot() Snapshot {
	return Snapshot{
		State:   m.state.ID(),
		Address: m.addr,
		Status:  m.status.String(),
		Steps:   m.steps,
	}
}
