package encoding

// DeltaEncoder transforms values into successive differences before handing
// them to the inner encoder.
//
// The first value is encoded as a difference from zero, so a delta stream
// needs no out-of-band initial value. Differences use wrapping
// two's-complement arithmetic; DeltaDecoder reconstructs with the same
// wrapping addition, so round-trips are exact over the entire int64 domain.
//
// Wrappers compose: wrapping a DeltaEncoder in another DeltaEncoder yields
// second-order (delta-of-delta) encoding, which stores one byte per value for
// series with a constant step.
//
// Example:
//
//	buf := make([]byte, 256)
//	enc := encoding.NewDeltaEncoder(encoding.NewPlainEncoder(buf))
//	for _, v := range values {
//	    if !enc.Write(v) {
//	        break // range full, seal the block
//	    }
//	}
type DeltaEncoder[E IntEncoder] struct {
	inner E
	prev  int64
}

var _ IntEncoder = (*DeltaEncoder[*PlainEncoder])(nil)
var _ IntEncoder = (*DeltaEncoder[*DeltaEncoder[*PlainEncoder]])(nil)

// NewDeltaEncoder creates a delta encoder wrapping inner.
func NewDeltaEncoder[E IntEncoder](inner E) *DeltaEncoder[E] {
	return &DeltaEncoder[E]{inner: inner}
}

// NewDeltaOfDeltaEncoder creates the common second-order composition bound
// to buf: delta-of-delta over a plain zigzag varint encoder.
func NewDeltaOfDeltaEncoder(buf []byte) *DeltaEncoder[*DeltaEncoder[*PlainEncoder]] {
	return NewDeltaEncoder(NewDeltaEncoder(NewPlainEncoder(buf)))
}

// Write encodes a single value as the difference from the previous one.
//
// When the inner write fails the previous-value state is left untouched, so
// a later write encodes its difference against the last value that was
// actually stored. This keeps composed encoders consistent across failed
// writes at any nesting depth.
func (e *DeltaEncoder[E]) Write(v int64) bool {
	if !e.inner.Write(v - e.prev) {
		return false
	}
	e.prev = v

	return true
}

// WriteSlice encodes values in order until one does not fit, returning the
// number of values written.
func (e *DeltaEncoder[E]) WriteSlice(values []int64) int {
	for i, v := range values {
		if !e.Write(v) {
			return i
		}
	}

	return len(values)
}

// Count returns the number of values successfully written.
func (e *DeltaEncoder[E]) Count() int {
	return e.inner.Count()
}

// Pos returns the byte offset one past the last encoded value.
func (e *DeltaEncoder[E]) Pos() int {
	return e.inner.Pos()
}

// Inner returns the wrapped encoder.
func (e *DeltaEncoder[E]) Inner() E {
	return e.inner
}

// DeltaDecoder reconstructs values from the successive differences produced
// by DeltaEncoder.
type DeltaDecoder[D IntDecoder] struct {
	inner D
	prev  int64
}

var _ IntDecoder = (*DeltaDecoder[*PlainDecoder])(nil)
var _ IntDecoder = (*DeltaDecoder[*DeltaDecoder[*PlainDecoder]])(nil)

// NewDeltaDecoder creates a delta decoder wrapping inner.
func NewDeltaDecoder[D IntDecoder](inner D) *DeltaDecoder[D] {
	return &DeltaDecoder[D]{inner: inner}
}

// NewDeltaOfDeltaDecoder creates the decoder counterpart of
// NewDeltaOfDeltaEncoder bound to data.
func NewDeltaOfDeltaDecoder(data []byte) *DeltaDecoder[*DeltaDecoder[*PlainDecoder]] {
	return NewDeltaDecoder(NewDeltaDecoder(NewPlainDecoder(data)))
}

// Read decodes the next value by adding the inner difference to the running
// value.
func (d *DeltaDecoder[D]) Read() (int64, bool) {
	delta, ok := d.inner.Read()
	if !ok {
		return 0, false
	}
	d.prev += delta

	return d.prev, true
}

// Count returns the number of values successfully read.
func (d *DeltaDecoder[D]) Count() int {
	return d.inner.Count()
}

// Pos returns the byte offset one past the last decoded value.
func (d *DeltaDecoder[D]) Pos() int {
	return d.inner.Pos()
}

// Inner returns the wrapped decoder.
func (d *DeltaDecoder[D]) Inner() D {
	return d.inner
}
