package encoding

import (
	"fmt"

	"github.com/djnz00/strata/errs"
	"github.com/djnz00/strata/format"
)

// IntEncoder is the interface implemented by all value encoders in this
// package.
//
// An encoder is bound to a fixed output range at construction time. Write
// never grows the range: when the encoded form of a value does not fit into
// the remaining space, Write returns false and leaves the encoder state
// untouched, including wrapper state in composed encoders. The caller decides
// what to do with the full range, typically sealing the block and starting
// the next one.
type IntEncoder interface {
	// Write encodes a single value into the output range.
	// It returns false, with no partial effect, when the remaining space
	// cannot hold the encoded value.
	Write(v int64) bool

	// Count returns the number of values successfully written.
	Count() int

	// Pos returns the byte offset one past the last encoded value.
	Pos() int
}

// IntDecoder is the interface implemented by all value decoders in this
// package.
//
// A decoder is bound to a fixed input range at construction time. Read
// reports false at the end of the range or when the remaining bytes do not
// form a valid encoding; it never panics on truncated input.
type IntDecoder interface {
	// Read decodes the next value from the input range.
	Read() (int64, bool)

	// Count returns the number of values successfully read.
	Count() int

	// Pos returns the byte offset one past the last decoded value.
	Pos() int
}

// CreateEncoder creates an encoder of the given encoding type bound to buf.
//
// Parameters:
//   - encType: One of format.TypePlain, format.TypeDelta, format.TypeDeltaDelta
//   - buf: The fixed output range the encoder writes into
//
// Returns:
//   - IntEncoder: The encoder instance
//   - error: errs.ErrInvalidEncodingType if encType is not supported
func CreateEncoder(encType format.EncodingType, buf []byte) (IntEncoder, error) {
	switch encType {
	case format.TypePlain:
		return NewPlainEncoder(buf), nil
	case format.TypeDelta:
		return NewDeltaEncoder(NewPlainEncoder(buf)), nil
	case format.TypeDeltaDelta:
		return NewDeltaOfDeltaEncoder(buf), nil
	default:
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidEncodingType, encType)
	}
}

// CreateDecoder creates a decoder of the given encoding type bound to data.
//
// The encoding type must match the one the data was written with; the codec
// itself carries no type marker, the block header does.
//
// Returns:
//   - IntDecoder: The decoder instance
//   - error: errs.ErrInvalidEncodingType if encType is not supported
func CreateDecoder(encType format.EncodingType, data []byte) (IntDecoder, error) {
	switch encType {
	case format.TypePlain:
		return NewPlainDecoder(data), nil
	case format.TypeDelta:
		return NewDeltaDecoder(NewPlainDecoder(data)), nil
	case format.TypeDeltaDelta:
		return NewDeltaOfDeltaDecoder(data), nil
	default:
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidEncodingType, encType)
	}
}
