package codec_test

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/aretw0/turing/pkg/codec"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *domain.Configuration[rune] {
	t.Helper()
	conf := domain.NewConfiguration[rune]()
	conf.AddStates(
		domain.NewState[rune](0, domain.AcceptNone),
		domain.NewState[rune](1, domain.Accept),
		domain.NewState[rune](7, domain.Reject),
	)
	require.NoError(t, conf.AddTransition(0, 0, domain.MoveRight, '1', '1'))
	require.NoError(t, conf.AddTransition(0, 1, domain.ActionNone, '1', '_'))
	require.NoError(t, conf.AddTransition(0, 7, domain.MoveLeft, 'x', 'a', 'b'))
	return conf
}

func randomConfiguration(rng *rand.Rand) *domain.Configuration[rune] {
	alphabet := []rune("01_abxyzλ")
	conf := domain.NewConfiguration[rune]()
	n := rng.Intn(6) + 1
	ids := make([]domain.StateID, n)
	for i := range ids {
		ids[i] = domain.StateID(rng.Uint64() % 1000)
		conf.AddState(domain.NewState[rune](ids[i], domain.Acceptance(rng.Intn(3))))
	}
	for i := 0; i < rng.Intn(12); i++ {
		from := ids[rng.Intn(n)]
		to := ids[rng.Intn(n)]
		k := rng.Intn(3) + 1
		inputs := make([]rune, k)
		for j := range inputs {
			inputs[j] = alphabet[rng.Intn(len(alphabet))]
		}
		_ = conf.AddTransition(from, to, domain.Action(rng.Intn(3)), alphabet[rng.Intn(len(alphabet))], inputs...)
	}
	return conf
}

func TestRoundTrip_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		conf := randomConfiguration(rng)
		data := codec.Encode(conf, codec.Runes)

		decoded, err := codec.Decode(data, codec.Runes)
		require.NoError(t, err)
		assert.True(t, conf.Equal(decoded), "iteration %d", i)
		assert.Equal(t, data, codec.Encode(decoded, codec.Runes), "re-encoding is byte-identical")
	}
}

func TestEncode_Layout(t *testing.T) {
	conf := domain.NewConfiguration[byte]()
	conf.AddState(domain.NewState[byte](2, domain.Accept))
	require.NoError(t, conf.AddTransition(2, 5, domain.MoveRight, 'o', 'i'))

	want := []byte{
		1, 0, 0, 0, // state_count
		2, 0, 0, 0, 0, 0, 0, 0, // state_id
		1,          // acceptance
		1, 0, 0, 0, // transition_count
		2,          // action
		1, 0, 0, 0, // input_count
		'i',                    // input
		'o',                    // output
		5, 0, 0, 0, 0, 0, 0, 0, // target
	}
	assert.Equal(t, want, codec.Encode(conf, codec.Bytes))
}

func TestDecode_TruncatedPrefixes(t *testing.T) {
	data := codec.Encode(sample(t), codec.Runes)
	for n := 0; n < len(data); n++ {
		_, err := codec.Decode(data[:n], codec.Runes)
		require.Error(t, err, "prefix of %d bytes", n)
		var de *codec.DecodeError
		assert.ErrorAs(t, err, &de)
	}
}

func TestDecode_HugeCountFailsFast(t *testing.T) {
	data := binary.LittleEndian.AppendUint32(nil, 0x7fffffff)
	_, err := codec.Decode(data, codec.Runes)
	assert.ErrorIs(t, err, codec.ErrTruncated)
}

func TestDecode_Malformed(t *testing.T) {
	good := codec.Encode(sample(t), codec.Runes)

	t.Run("negative count", func(t *testing.T) {
		_, err := codec.Decode([]byte{0xff, 0xff, 0xff, 0xff}, codec.Runes)
		assert.ErrorIs(t, err, codec.ErrMalformed)
	})

	t.Run("bad acceptance", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		bad[4+8] = 9
		_, err := codec.Decode(bad, codec.Runes)
		assert.ErrorIs(t, err, codec.ErrMalformed)
	})

	t.Run("bad action", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		bad[4+8+1+4] = 3
		_, err := codec.Decode(bad, codec.Runes)
		assert.ErrorIs(t, err, codec.ErrMalformed)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		_, err := codec.Decode(append(append([]byte(nil), good...), 0), codec.Runes)
		assert.ErrorIs(t, err, codec.ErrMalformed)
	})

	t.Run("transition without inputs", func(t *testing.T) {
		bad := []byte{
			1, 0, 0, 0, // state_count
			2, 0, 0, 0, 0, 0, 0, 0, // state_id
			0,          // acceptance
			1, 0, 0, 0, // transition_count
			2,          // action
			0, 0, 0, 0, // input_count
			'o',                    // output
			5, 0, 0, 0, 0, 0, 0, 0, // target
		}
		_, err := codec.Decode(bad, codec.Bytes)
		assert.ErrorIs(t, err, codec.ErrMalformed)
		var de *codec.DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "input_count", de.Field)
	})

	t.Run("duplicate state", func(t *testing.T) {
		conf := domain.NewConfiguration[byte]()
		conf.AddState(domain.NewState[byte](1, domain.AcceptNone))
		one := codec.Encode(conf, codec.Bytes)
		dup := binary.LittleEndian.AppendUint32(nil, 2)
		dup = append(dup, one[4:]...)
		dup = append(dup, one[4:]...)
		_, err := codec.Decode(dup, codec.Bytes)
		assert.ErrorIs(t, err, codec.ErrMalformed)
	})
}

func TestEnvelope_RoundTrip(t *testing.T) {
	conf := sample(t)
	conf.SetStartState(7)
	env := codec.Envelope[rune]{Config: conf, Blank: '_', Memory: "111", Charset: "01_abx"}

	data := codec.EncodeEnvelope(env, codec.Runes)
	got, err := codec.DecodeEnvelope(data, codec.Runes)
	require.NoError(t, err)

	assert.Equal(t, '_', got.Blank)
	assert.Equal(t, "111", got.Memory)
	assert.Equal(t, "01_abx", got.Charset)
	assert.Equal(t, domain.StateID(7), got.Config.StartState())
	assert.True(t, conf.Equal(got.Config))
	assert.Equal(t, data, codec.EncodeEnvelope(got, codec.Runes))
}

func TestEnvelope_WithoutStartState(t *testing.T) {
	conf := sample(t)
	conf.SetStartState(1)
	data := codec.EncodeEnvelope(codec.Envelope[rune]{Config: conf, Blank: '_'}, codec.Runes)

	got, err := codec.DecodeEnvelope(data[:len(data)-8], codec.Runes)
	require.NoError(t, err)
	assert.Equal(t, domain.StateID(0), got.Config.StartState())
}

func TestEnvelope_Truncated(t *testing.T) {
	data := codec.EncodeEnvelope(codec.Envelope[rune]{Config: sample(t), Blank: '_', Memory: "ab", Charset: "ab_"}, codec.Runes)
	for _, n := range []int{0, 3, 10, len(data) - 12, len(data) - 9, len(data) - 1} {
		_, err := codec.DecodeEnvelope(data[:n], codec.Runes)
		assert.Error(t, err, "prefix of %d bytes", n)
	}
}

func TestBase64(t *testing.T) {
	data := codec.Encode(sample(t), codec.Runes)
	text := codec.EncodeBase64(data)
	back, err := codec.DecodeBase64(text)
	require.NoError(t, err)
	assert.Equal(t, data, back)

	_, err = codec.DecodeBase64("not base64!")
	assert.ErrorIs(t, err, codec.ErrMalformed)
}

func TestRunes_InvalidRune(t *testing.T) {
	conf := domain.NewConfiguration[rune]()
	conf.AddState(domain.NewState[rune](0, domain.AcceptNone))
	require.NoError(t, conf.AddTransition(0, 0, domain.ActionNone, 'a', 'a'))
	data := codec.Encode(conf, codec.Runes)
	// Overwrite the output symbol with a surrogate code point.
	binary.LittleEndian.PutUint32(data[len(data)-12:], 0xD800)
	_, err := codec.Decode(data, codec.Runes)
	assert.ErrorIs(t, err, codec.ErrMalformed)
}
