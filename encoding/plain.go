package encoding

import (
	"encoding/binary"
)

// PlainEncoder encodes int64 values as zigzag varints into a fixed output
// range.
//
// Encoding process per value:
//  1. Zigzag encode: maps signed values to unsigned so small magnitudes of
//     either sign stay small (v → (v << 1) ^ (v >> 63))
//  2. Varint encode: 1-10 bytes depending on magnitude
//
// The encoder is the innermost element of every codec composition in this
// package; delta wrappers transform values before they reach it.
type PlainEncoder struct {
	buf   []byte
	temp  [binary.MaxVarintLen64]byte
	pos   int
	count int
}

var _ IntEncoder = (*PlainEncoder)(nil)

// NewPlainEncoder creates a plain zigzag varint encoder bound to buf.
//
// The encoder writes into buf[0:len(buf)] and never grows it. A zero-length
// buf yields an encoder whose Write always returns false.
func NewPlainEncoder(buf []byte) *PlainEncoder {
	return &PlainEncoder{buf: buf}
}

// Write encodes a single value.
//
// It returns false and leaves the encoder unchanged when the encoded form
// does not fit into the remaining range. A failed write does not poison the
// encoder: a later, smaller value may still fit.
func (e *PlainEncoder) Write(v int64) bool {
	// Zigzag encode (efficient signed-to-unsigned mapping)
	zigzag := (v << 1) ^ (v >> 63)

	n := binary.PutUvarint(e.temp[:], uint64(zigzag)) //nolint:gosec
	if n > len(e.buf)-e.pos {
		return false
	}

	copy(e.buf[e.pos:], e.temp[:n])
	e.pos += n
	e.count++

	return true
}

// WriteSlice encodes values in order until one does not fit, returning the
// number of values written.
func (e *PlainEncoder) WriteSlice(values []int64) int {
	for i, v := range values {
		if !e.Write(v) {
			return i
		}
	}

	return len(values)
}

// Count returns the number of values successfully written.
func (e *PlainEncoder) Count() int {
	return e.count
}

// Pos returns the byte offset one past the last encoded value.
func (e *PlainEncoder) Pos() int {
	return e.pos
}

// Bytes returns the written prefix of the output range.
//
// The returned slice aliases the buffer passed to NewPlainEncoder.
func (e *PlainEncoder) Bytes() []byte {
	return e.buf[:e.pos]
}

// Reset rebinds the encoder to a new output range and clears its counters.
func (e *PlainEncoder) Reset(buf []byte) {
	e.buf = buf
	e.pos = 0
	e.count = 0
}

// PlainDecoder decodes int64 values written by PlainEncoder from a fixed
// input range.
type PlainDecoder struct {
	data  []byte
	pos   int
	count int
}

var _ IntDecoder = (*PlainDecoder)(nil)

// NewPlainDecoder creates a plain zigzag varint decoder bound to data.
func NewPlainDecoder(data []byte) *PlainDecoder {
	return &PlainDecoder{data: data}
}

// Read decodes the next value.
//
// It returns false at the end of the range and on malformed input (a varint
// truncated by the end of the range, or one that overflows 64 bits). The
// decoder does not advance past malformed input.
func (d *PlainDecoder) Read() (int64, bool) {
	zigzag, n := binary.Uvarint(d.data[d.pos:])
	if n <= 0 {
		return 0, false
	}

	d.pos += n
	d.count++

	return int64(zigzag>>1) ^ -(int64(zigzag & 1)), true //nolint:gosec
}

// Count returns the number of values successfully read.
func (d *PlainDecoder) Count() int {
	return d.count
}

// Pos returns the byte offset one past the last decoded value.
func (d *PlainDecoder) Pos() int {
	return d.pos
}

// Reset rebinds the decoder to a new input range and clears its counters.
func (d *PlainDecoder) Reset(data []byte) {
	d.data = data
	d.pos = 0
	d.count = 0
}
