package tape_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTape_ReadDefaultsToBlank(t *testing.T) {
	tp := tape.New('_')
	assert.Equal(t, '_', tp.Read(-1000))
	assert.Equal(t, 0, tp.UsedSize())
}

func TestTape_WriteBlankRemovesEntry(t *testing.T) {
	tp := tape.New('_')
	tp.Write(3, 'a')
	require.Equal(t, 1, tp.UsedSize())

	tp.Write(3, '_')
	assert.Equal(t, 0, tp.UsedSize())

	// Writing blank to an absent address is a no-op.
	tp.Write(10, '_')
	assert.Equal(t, 0, tp.UsedSize())
}

func TestTape_CanonicalUnderRandomWrites(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune{'_', 'a', 'b'}
	tp := tape.New('_')
	last := make(map[int64]rune)

	for i := 0; i < 2000; i++ {
		addr := int64(rng.Intn(40) - 20)
		sym := alphabet[rng.Intn(len(alphabet))]
		tp.Write(addr, sym)
		last[addr] = sym
	}

	nonBlank := 0
	for addr, sym := range last {
		if sym != '_' {
			nonBlank++
		}
		assert.Equal(t, sym, tp.Read(addr))
	}
	assert.Equal(t, nonBlank, tp.UsedSize())
}

func TestTape_Dense(t *testing.T) {
	tp := tape.New('_')
	_, _, err := tp.Dense()
	assert.ErrorIs(t, err, domain.ErrEmptyTape)

	tp.Write(-2, 'a')
	tp.Write(1, 'b')

	cells, origin, err := tp.Dense()
	require.NoError(t, err)
	assert.Equal(t, int64(-2), origin)
	assert.Equal(t, []rune{'a', '_', '_', 'b'}, cells)
}

func TestTape_Window(t *testing.T) {
	tp := tape.New('_')
	tp.Load(0, []rune("abc"))
	assert.Equal(t, []rune("_abc_"), tp.Window(1, 2))
	assert.Equal(t, []rune("b"), tp.Window(1, 0))
	assert.Equal(t, []rune("b"), tp.Window(1, -3))
}

func TestTape_WindowClampsRadius(t *testing.T) {
	tp := tape.New('_')
	tp.Load(0, []rune("abc"))

	for _, radius := range []int{tape.MaxWindowRadius + 1, math.MaxInt} {
		w := tp.Window(1, radius)
		require.Len(t, w, 2*tape.MaxWindowRadius+1)
		assert.Equal(t, 'b', w[tape.MaxWindowRadius])
		assert.Equal(t, '_', w[0])
	}
}

func TestTape_Hooks(t *testing.T) {
	type write struct {
		addr     int64
		old, new rune
	}
	var reads []int64
	var writes []write

	tp := tape.New('_', tape.Hooks[rune]{
		OnRead:  func(addr int64, _ rune) { reads = append(reads, addr) },
		OnWrite: func(addr int64, old, v rune) { writes = append(writes, write{addr, old, v}) },
	})

	tp.Write(0, 'x')
	tp.Write(0, 'y')
	tp.Write(0, '_')
	_ = tp.Read(5)

	assert.Equal(t, []write{{0, '_', 'x'}, {0, 'x', 'y'}, {0, 'y', '_'}}, writes)
	assert.Equal(t, []int64{5}, reads)
}

func TestTape_ClearKeepsBlank(t *testing.T) {
	tp := tape.New[byte](0)
	tp.Load(-1, []byte{1, 2, 3})
	tp.Clear()
	assert.Equal(t, 0, tp.UsedSize())
	assert.Equal(t, byte(0), tp.Blank())
}
