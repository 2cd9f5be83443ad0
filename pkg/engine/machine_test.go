package engine_test

import (
	"strings"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unaryIncrement appends a 1 to a unary number and accepts.
func unaryIncrement(t *testing.T) *domain.Configuration[rune] {
	t.Helper()
	conf := domain.NewConfiguration[rune]()
	conf.AddStates(
		domain.NewState[rune](0, domain.AcceptNone),
		domain.NewState[rune](1, domain.Accept),
	)
	require.NoError(t, conf.AddTransition(0, 0, domain.MoveRight, '1', '1'))
	require.NoError(t, conf.AddTransition(0, 1, domain.ActionNone, '1', '_'))
	return conf
}

func run(t *testing.T, m *engine.Machine[rune], limit int) {
	t.Helper()
	for i := 0; i < limit && m.Status() == domain.StatusActive; i++ {
		require.NoError(t, m.Step())
	}
}

func TestMachine_UnaryIncrement(t *testing.T) {
	m, err := engine.New(unaryIncrement(t), '_', engine.PolicyStrict)
	require.NoError(t, err)
	m.Initialize([]rune("111"))

	run(t, m, 100)

	assert.Equal(t, domain.StatusHaltedAccept, m.Status())
	assert.Equal(t, uint64(4), m.Steps())
	assert.Equal(t, int64(3), m.Address())
	assert.Equal(t, domain.StateID(1), m.StateID())

	cells, origin, err := m.Tape().Dense()
	require.NoError(t, err)
	assert.Equal(t, int64(0), origin)
	assert.Equal(t, "1111", string(cells))
	assert.True(t, m.HasHalted())
}

func TestMachine_StrictUndefinedRejects(t *testing.T) {
	conf := domain.NewConfiguration[rune]()
	conf.AddState(domain.NewState[rune](0, domain.AcceptNone))
	require.NoError(t, conf.AddTransition(0, 0, domain.MoveRight, 'b', 'a'))

	m, err := engine.New(conf, '_', engine.PolicyStrict)
	require.NoError(t, err)
	m.Initialize(nil)

	require.NoError(t, m.Step())
	assert.Equal(t, domain.StatusHaltedReject, m.Status())
	assert.Equal(t, 0, m.Tape().UsedSize())
	assert.Equal(t, int64(0), m.Address())
	assert.Equal(t, uint64(0), m.Steps())
}

func TestMachine_PermissiveUndefinedStaysActive(t *testing.T) {
	conf := domain.NewConfiguration[rune]()
	conf.AddState(domain.NewState[rune](0, domain.AcceptNone))

	var undefined int
	m, err := engine.New(conf, '_', engine.PolicyPermissive, engine.WithHooks(engine.Hooks[rune]{
		OnUndefined: func(engine.UndefinedEvent[rune]) { undefined++ },
	}))
	require.NoError(t, err)
	m.Initialize([]rune("x"))

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Step())
	}
	assert.Equal(t, domain.StatusActive, m.Status())
	assert.Equal(t, 5, undefined)
	assert.Equal(t, "x", string(m.Window(0)))

	// The historical predicate reports "halted" while still active.
	assert.True(t, m.HasHalted())
}

func TestMachine_PermissiveHasHaltedInvertedAfterAccept(t *testing.T) {
	m, err := engine.New(unaryIncrement(t), '_', engine.PolicyPermissive)
	require.NoError(t, err)
	m.Initialize([]rune("1"))
	run(t, m, 10)

	require.Equal(t, domain.StatusHaltedAccept, m.Status())
	assert.False(t, m.HasHalted())
}

func TestMachine_HaltsOnEnteringRejectState(t *testing.T) {
	conf := domain.NewConfiguration[rune]()
	conf.AddStates(
		domain.NewState[rune](0, domain.AcceptNone),
		domain.NewState[rune](9, domain.Reject),
	)
	require.NoError(t, conf.AddTransition(0, 9, domain.MoveLeft, 'z', 'a'))
	// Reject state would loop forever if it were stepped.
	require.NoError(t, conf.AddTransition(9, 9, domain.MoveLeft, 'z', '_', 'a', 'z'))

	m, err := engine.New(conf, '_', engine.PolicyStrict)
	require.NoError(t, err)
	m.Initialize([]rune("a"))

	require.NoError(t, m.Step())
	assert.Equal(t, domain.StatusHaltedReject, m.Status())
	assert.Equal(t, int64(-1), m.Address())

	require.NoError(t, m.Step())
	assert.Equal(t, uint64(1), m.Steps(), "halted machines do not step")
}

func TestMachine_HaltHookFiresOnce(t *testing.T) {
	var halts []engine.HaltEvent
	m, err := engine.New(unaryIncrement(t), '_', engine.PolicyStrict, engine.WithHooks(engine.Hooks[rune]{
		OnHalt: func(e engine.HaltEvent) { halts = append(halts, e) },
	}))
	require.NoError(t, err)
	m.Initialize([]rune("11"))

	for i := 0; i < 10; i++ {
		require.NoError(t, m.Step())
	}
	require.Len(t, halts, 1)
	assert.Equal(t, domain.StatusHaltedAccept, halts[0].Status)
	assert.Equal(t, uint64(3), halts[0].Steps)
}

func TestMachine_Determinism(t *testing.T) {
	conf := unaryIncrement(t)

	trace := func() []engine.TransitionEvent[rune] {
		var events []engine.TransitionEvent[rune]
		m, err := engine.New(conf, '_', engine.PolicyStrict, engine.WithHooks(engine.Hooks[rune]{
			OnTransition: func(e engine.TransitionEvent[rune]) { events = append(events, e) },
		}))
		require.NoError(t, err)
		m.Initialize([]rune("11111"))
		run(t, m, 100)
		return events
	}

	first := trace()
	require.Len(t, first, 6)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, trace())
	}
}

func TestMachine_ReinitializeRestarts(t *testing.T) {
	m, err := engine.New(unaryIncrement(t), '_', engine.PolicyStrict)
	require.NoError(t, err)

	m.Initialize([]rune("11"))
	run(t, m, 10)
	require.Equal(t, domain.StatusHaltedAccept, m.Status())

	m.Initialize([]rune("1"))
	assert.Equal(t, domain.StatusActive, m.Status())
	assert.Equal(t, domain.StateID(0), m.StateID())
	assert.Equal(t, uint64(0), m.Steps())
	assert.Equal(t, 1, m.Tape().UsedSize())
}

func TestMachine_NotInitialized(t *testing.T) {
	m, err := engine.New(unaryIncrement(t), '_', engine.PolicyStrict)
	require.NoError(t, err)
	assert.ErrorIs(t, m.Step(), engine.ErrNotInitialized)
	assert.False(t, m.Initialized())
	assert.Equal(t, domain.StatusActive, m.Status())
	assert.Equal(t, uint64(0), m.Steps())

	m.Initialize([]rune("1"))
	assert.True(t, m.Initialized())
	require.NoError(t, m.Step())
	assert.Equal(t, uint64(1), m.Steps())
}

func TestMachine_MissingStartState(t *testing.T) {
	conf := domain.NewConfiguration[rune]()
	conf.SetStartState(3)
	_, err := engine.New(conf, '_', engine.PolicyStrict)
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestMachine_MissingTargetIsUndefined(t *testing.T) {
	conf := domain.NewConfiguration[rune]()
	conf.AddState(domain.NewState[rune](0, domain.AcceptNone))
	require.NoError(t, conf.AddTransition(0, 42, domain.MoveRight, 'b', 'a'))

	var undefined []engine.UndefinedEvent[rune]
	m, err := engine.New(conf, '_', engine.PolicyStrict, engine.WithHooks(engine.Hooks[rune]{
		OnUndefined: func(e engine.UndefinedEvent[rune]) { undefined = append(undefined, e) },
	}))
	require.NoError(t, err)
	m.Initialize([]rune("a"))

	require.NoError(t, m.Step())
	assert.Equal(t, domain.StatusHaltedReject, m.Status())
	assert.Equal(t, "a", string(m.Window(0)), "tape is untouched")
	require.Len(t, undefined, 1)
	assert.ErrorIs(t, undefined[0].Err, domain.ErrStateNotFound)
}

func TestMachine_ObservationSurface(t *testing.T) {
	m, err := engine.New(unaryIncrement(t), '_', engine.PolicyStrict)
	require.NoError(t, err)
	m.Initialize([]rune("1"))

	assert.Equal(t, "_1_", string(m.Window(1)))
	assert.Len(t, m.AvailableTransitions(), 2)
	assert.Equal(t, engine.Snapshot{State: 0, Address: 0, Status: "active", Steps: 0}, m.Snapshot())
}

func TestMachine_SharedConfigurationIndependentRuns(t *testing.T) {
	conf := unaryIncrement(t)
	done := make(chan uint64, 4)
	for i := 1; i <= 4; i++ {
		go func(n int) {
			m, err := engine.New(conf, '_', engine.PolicyStrict)
			if err != nil {
				done <- 0
				return
			}
			m.Initialize([]rune(strings.Repeat("1", n)))
			for m.Status() == domain.StatusActive {
				_ = m.Step()
			}
			done <- m.Steps()
		}(i)
	}
	total := uint64(0)
	for i := 0; i < 4; i++ {
		total += <-done
	}
	// n ones take n+1 steps: 2+3+4+5.
	assert.Equal(t, uint64(14), total)
}

func TestParsePolicy(t *testing.T) {
	p, err := engine.ParsePolicy("Permissive")
	require.NoError(t, err)
	assert.Equal(t, engine.PolicyPermissive, p)

	p, err = engine.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, engine.PolicyStrict, p)

	_, err = engine.ParsePolicy("lenient")
	assert.ErrorIs(t, err, engine.ErrUnknownPolicy)
}

func TestMergeHooks(t *testing.T) {
	var order []string
	h := engine.MergeHooks(
		engine.Hooks[rune]{OnHalt: func(engine.HaltEvent) { order = append(order, "a") }},
		engine.Hooks[rune]{},
		engine.Hooks[rune]{OnHalt: func(engine.HaltEvent) { order = append(order, "b") }},
	)
	h.OnHalt(engine.HaltEvent{})
	assert.Equal(t, []string{"a", "b"}, order)
}
