package codec

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// SymbolCodec writes and reads one symbol in a fixed number of bytes.
type SymbolCodec[S comparable] interface {
	Width() int
	Put(dst []byte, s S)
	Get(src []byte) (S, error)
}

// Runes encodes runes as 4-byte little-endian int32 values.
var Runes SymbolCodec[rune] = runeCodec{}

// Bytes encodes bytes as themselves.
var Bytes SymbolCodec[byte] = byteCodec{}

type runeCodec struct{}

func (runeCodec) Width() int { return 4 }

func (runeCodec) Put(dst []byte, s rune) { binary.LittleEndian.PutUint32(dst, uint32(s)) }

func (runeCodec) Get(src []byte) (rune, error) {
	r := rune(binary.LittleEndian.Uint32(src))
	if !utf8.ValidRune(r) {
		return 0, fmt.Errorf("%w: invalid rune %#x", ErrMalformed, uint32(r))
	}
	return r, nil
}

type byteCodec struct{}

func (byteCodec) Width() int { return 1 }

func (byteCodec) Put(dst []byte, s byte) { dst[0] = s }

func (byteCodec) Get(src []byte) (byte, error) { return src[0], nil }
