package codec

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
)

const (
	idSize = 8
	// id + acceptance + transition count
	minStateSize = idSize + 1 + 4
)

func appendI32(b []byte, n int) []byte {
	return binary.LittleEndian.AppendUint32(b, uint32(int32(n)))
}

func appendSymbol[S comparable](b []byte, sc SymbolCodec[S], s S) []byte {
	n := len(b)
	b = append(b, make([]byte, sc.Width())...)
	sc.Put(b[n:], s)
	return b
}

// Encode serializes the states and transitions of conf. States and
// transitions are written in insertion order, so equal configurations
// built the same way encode to identical bytes.
func Encode[S comparable](conf *domain.Configuration[S], sc SymbolCodec[S]) []byte {
	states := conf.States()
	b := appendI32(nil, len(states))
	for _, s := range states {
		ts := s.Transitions()
		b = binary.LittleEndian.AppendUint64(b, s.ID())
		b = append(b, byte(s.Acceptance()))
		b = appendI32(b, len(ts))
		for _, t := range ts {
			inputs := t.Inputs()
			b = append(b, byte(t.Action()))
			b = appendI32(b, len(inputs))
			for _, in := range inputs {
				b = appendSymbol(b, sc, in)
			}
			b = appendSymbol(b, sc, t.Output())
			b = binary.LittleEndian.AppendUint64(b, t.Target())
		}
	}
	return b
}

// Decode rebuilds a configuration from Encode output. The whole input must
// be consumed.
func Decode[S comparable](data []byte, sc SymbolCodec[S]) (*domain.Configuration[S], error) {
	r := &reader{data: data}
	conf, err := decodeConfiguration(r, sc)
	if err != nil {
		return nil, err
	}
	if r.remaining() != 0 {
		return nil, r.fail("end", fmt.Errorf("%w: %d trailing bytes", ErrMalformed, r.remaining()))
	}
	return conf, nil
}

func decodeConfiguration[S comparable](r *reader, sc SymbolCodec[S]) (*domain.Configuration[S], error) {
	minTransition := 1 + 4 + sc.Width() + idSize

	stateCount, err := r.count("state_count", minStateSize)
	if err != nil {
		return nil, err
	}
	conf := domain.NewConfiguration[S]()
	for range stateCount {
		id, err := r.u64("state_id")
		if err != nil {
			return nil, err
		}
		if _, err := conf.State(id); err == nil {
			return nil, r.fail("state_id", fmt.Errorf("%w: duplicate state %d", ErrMalformed, id))
		}
		tag, err := r.u8("acceptance")
		if err != nil {
			return nil, err
		}
		acc := domain.Acceptance(tag)
		if !acc.Valid() {
			return nil, r.fail("acceptance", fmt.Errorf("%w: tag %d", ErrMalformed, tag))
		}
		transCount, err := r.count("transition_count", minTransition)
		if err != nil {
			return nil, err
		}
		state := domain.NewState[S](id, acc)
		for range transCount {
			act, err := r.u8("action")
			if err != nil {
				return nil, err
			}
			action := domain.Action(act)
			if !action.Valid() {
				return nil, r.fail("action", fmt.Errorf("%w: action %d", ErrMalformed, act))
			}
			inCount, err := r.count("input_count", sc.Width())
			if err != nil {
				return nil, err
			}
			if inCount == 0 {
				return nil, r.fail("input_count", fmt.Errorf("%w: transition without input symbols", ErrMalformed))
			}
			inputs := make([]S, inCount)
			for i := range inputs {
				if inputs[i], err = symbol(r, sc, "input_symbol"); err != nil {
					return nil, err
				}
			}
			output, err := symbol(r, sc, "output_symbol")
			if err != nil {
				return nil, err
			}
			target, err := r.u64("target_id")
			if err != nil {
				return nil, err
			}
			if _, dup := state.TransitionTo(target); dup {
				return nil, r.fail("target_id", fmt.Errorf("%w: duplicate transition %d -> %d", ErrMalformed, id, target))
			}
			state = state.WithTransition(domain.NewTransition(target, action, output, inputs...))
		}
		conf.AddState(state)
	}
	return conf, nil
}

// Envelope is a configuration bundled with the alphabet data needed to run
// it: the blank symbol, the initial tape and the declared charset.
type Envelope[S comparable] struct {
	Config  *domain.Configuration[S]
	Blank   S
	Memory  string
	Charset string
}

// EncodeEnvelope serializes env, including the start state id.
func EncodeEnvelope[S comparable](env Envelope[S], sc SymbolCodec[S]) []byte {
	inner := Encode(env.Config, sc)
	b := appendI32(nil, len(inner))
	b = append(b, inner...)
	b = appendSymbol(b, sc, env.Blank)
	b = binary.AppendUvarint(b, uint64(len(env.Memory)))
	b = append(b, env.Memory...)
	b = binary.AppendUvarint(b, uint64(len(env.Charset)))
	b = append(b, env.Charset...)
	b = binary.LittleEndian.AppendUint64(b, env.Config.StartState())
	return b
}

// DecodeEnvelope reverses EncodeEnvelope. Input that ends right after the
// charset decodes with start state 0.
func DecodeEnvelope[S comparable](data []byte, sc SymbolCodec[S]) (Envelope[S], error) {
	var env Envelope[S]
	r := &reader{data: data}

	n, err := r.count("config_length", 1)
	if err != nil {
		return env, err
	}
	innerStart := r.off
	inner, err := r.take("config", n)
	if err != nil {
		return env, err
	}
	ir := &reader{data: inner}
	conf, err := decodeConfiguration(ir, sc)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Offset += innerStart
		}
		return env, err
	}
	if ir.remaining() != 0 {
		return env, r.fail("config", fmt.Errorf("%w: %d unused configuration bytes", ErrMalformed, ir.remaining()))
	}
	if env.Blank, err = symbol(r, sc, "blank"); err != nil {
		return env, err
	}
	if env.Memory, err = r.str("memory"); err != nil {
		return env, err
	}
	if env.Charset, err = r.str("charset"); err != nil {
		return env, err
	}
	if r.remaining() > 0 {
		start, err := r.u64("start_state")
		if err != nil {
			return env, err
		}
		conf.SetStartState(start)
	}
	if r.remaining() != 0 {
		return env, r.fail("end", fmt.Errorf("%w: %d trailing bytes", ErrMalformed, r.remaining()))
	}
	env.Config = conf
	return env, nil
}

// EncodeBase64 returns the standard base64 form of b.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeBase64 parses standard base64 text.
func DecodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return b, nil
}
