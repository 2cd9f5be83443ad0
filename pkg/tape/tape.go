// Package tape implements the unbounded, bidirectional memory of a Turing
// machine as a sparse map from signed address to symbol.
package tape

import "github.com/aretw0/turing/pkg/domain"

// Hooks are optional callbacks fired on cell access. They never influence
// the stored content.
type Hooks[S comparable] struct {
	OnRead  func(addr int64, value S)
	OnWrite func(addr int64, old, value S)
}

// View is the read-only surface of a Tape.
type View[S comparable] interface {
	Read(addr int64) S
	Blank() S
	UsedSize() int
	Dense() ([]S, int64, error)
}

// Tape is a sparse tape. Addresses that are not stored read as the blank
// symbol, and writing the blank symbol deletes the stored entry, so two
// tapes with equal content always hold equal maps.
//
// A Tape is not safe for concurrent use.
type Tape[S comparable] struct {
	cells map[int64]S
	blank S
	hooks Hooks[S]
}

// New creates an empty tape.
func New[S comparable](blank S, hooks ...Hooks[S]) *Tape[S] {
	t := &Tape[S]{
		cells: make(map[int64]S),
		blank: blank,
	}
	for _, h := range hooks {
		t.hooks = Merge(t.hooks, h)
	}
	return t
}

// Blank returns the blank symbol.
func (t *Tape[S]) Blank() S { return t.blank }

// Read returns the symbol stored at addr.
func (t *Tape[S]) Read(addr int64) S {
	v, ok := t.cells[addr]
	if !ok {
		v = t.blank
	}
	if t.hooks.OnRead != nil {
		t.hooks.OnRead(addr, v)
	}
	return v
}

// Write stores value at addr.
func (t *Tape[S]) Write(addr int64, value S) {
	old, ok := t.cells[addr]
	if !ok {
		old = t.blank
	}
	if value == t.blank {
		delete(t.cells, addr)
	} else {
		t.cells[addr] = value
	}
	if t.hooks.OnWrite != nil {
		t.hooks.OnWrite(addr, old, value)
	}
}

// Load writes symbols to consecutive cells starting at origin.
func (t *Tape[S]) Load(origin int64, symbols []S) {
	for i, s := range symbols {
		t.Write(origin+int64(i), s)
	}
}

// UsedSize returns the number of non-blank cells.
func (t *Tape[S]) UsedSize() int { return len(t.cells) }

// Bounds returns the lowest and highest non-blank address.
func (t *Tape[S]) Bounds() (lo, hi int64, ok bool) {
	if len(t.cells) == 0 {
		return 0, 0, false
	}
	first := true
	for addr := range t.cells {
		if first || addr < lo {
			lo = addr
		}
		if first || addr > hi {
			hi = addr
		}
		first = false
	}
	return lo, hi, true
}

// Dense materializes the cells between the lowest and highest non-blank
// address, inclusive, and returns them with the address of the first one.
// An all-blank tape yields domain.ErrEmptyTape.
func (t *Tape[S]) Dense() ([]S, int64, error) {
	lo, hi, ok := t.Bounds()
	if !ok {
		return nil, 0, domain.ErrEmptyTape
	}
	out := make([]S, hi-lo+1)
	for i := range out {
		out[i] = t.Read(lo + int64(i))
	}
	return out, lo, nil
}

// MaxWindowRadius bounds the radius accepted by Window.
const MaxWindowRadius = 4096

// Window returns the 2*radius+1 cells centered on addr. The radius is
// clamped to [0, MaxWindowRadius].
func (t *Tape[S]) Window(addr int64, radius int) []S {
	radius = min(max(radius, 0), MaxWindowRadius)
	out := make([]S, 2*radius+1)
	for i := range out {
		out[i] = t.Read(addr - int64(radius) + int64(i))
	}
	return out
}

// Clear removes every stored cell. The blank symbol is kept.
func (t *Tape[S]) Clear() {
	clear(t.cells)
}

// Merge combines hooks so that both run, a first.
func Merge[S comparable](a, b Hooks[S]) Hooks[S] {
	return Hooks[S]{
		OnRead: func(addr int64, v S) {
			if a.OnRead != nil {
				a.OnRead(addr, v)
			}
			if b.OnRead != nil {
				b.OnRead(addr, v)
			}
		},
		OnWrite: func(addr int64, old, v S) {
			if a.OnWrite != nil {
				a.OnWrite(addr, old, v)
			}
			if b.OnWrite != nil {
				b.OnWrite(addr, old, v)
			}
		},
	}
}
