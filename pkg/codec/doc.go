/*
Package codec serializes a domain.Configuration to a compact, deterministic
byte layout and back.

All integers are little-endian. The configuration layout is:

	int32            state_count
	repeat state_count times:
	  uint64         state_id
	  byte           acceptance   (0=None, 1=Accept, 2=Reject)
	  int32          transition_count
	  repeat transition_count times:
	    byte         action       (0=None, 1=Left, 2=Right)
	    int32        input_count
	    symbol       input        (input_count times)
	    symbol       output
	    uint64       target_id

Symbols are written by a SymbolCodec chosen for the alphabet. The start
state is not part of this layout; the Envelope that wraps a configuration
together with its blank symbol, initial memory and charset carries it:

	int32            config_length
	bytes            config
	symbol           blank
	uvarint, bytes   memory (UTF-8)
	uvarint, bytes   charset (UTF-8)
	uint64           start_state_id (optional, 0 when absent)

Every length and count is checked against the remaining input before it is
used, so truncated or hostile input fails with a *DecodeError instead of
allocating or producing a partial configuration.
*/
package codec
