package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// reader is a bounds-checked cursor over an input buffer.
type reader struct {
	data []byte
	off  int
}

func (r *reader) remaining() int { return len(r.data) - r.off }

func (r *reader) fail(field string, err error) error {
	return &DecodeError{Offset: r.off, Field: field, Err: err}
}

func (r *reader) take(field string, n int) ([]byte, error) {
	if n < 0 || n > r.remaining() {
		return nil, r.fail(field, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, n, r.remaining()))
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) u8(field string) (byte, error) {
	b, err := r.take(field, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u64(field string) (uint64, error) {
	b, err := r.take(field, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// count reads an int32 count and checks that count records of at least
// minSize bytes fit in the rest of the input.
func (r *reader) count(field string, minSize int) (int, error) {
	start := r.off
	b, err := r.take(field, 4)
	if err != nil {
		return 0, err
	}
	n := int32(binary.LittleEndian.Uint32(b))
	if n < 0 {
		r.off = start
		return 0, r.fail(field, fmt.Errorf("%w: negative count %d", ErrMalformed, n))
	}
	if minSize > 0 && int64(n)*int64(minSize) > int64(r.remaining()) {
		r.off = start
		return 0, r.fail(field, fmt.Errorf("%w: %d records of %d bytes exceed %d remaining", ErrTruncated, n, minSize, r.remaining()))
	}
	return int(n), nil
}

func (r *reader) str(field string) (string, error) {
	n, k := binary.Uvarint(r.data[r.off:])
	if k <= 0 {
		return "", r.fail(field, fmt.Errorf("%w: bad length prefix", ErrTruncated))
	}
	if n > math.MaxInt32 {
		return "", r.fail(field, fmt.Errorf("%w: length %d", ErrMalformed, n))
	}
	r.off += k
	b, err := r.take(field, int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", r.fail(field, fmt.Errorf("%w: invalid UTF-8", ErrMalformed))
	}
	return string(b), nil
}

func symbol[S comparable](r *reader, sc SymbolCodec[S], field string) (S, error) {
	var zero S
	b, err := r.take(field, sc.Width())
	if err != nil {
		return zero, err
	}
	s, err := sc.Get(b)
	if err != nil {
		return zero, r.fail(field, err)
	}
	return s, nil
}
