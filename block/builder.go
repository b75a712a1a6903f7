package block

import (
	"fmt"

	"github.com/djnz00/strata/encoding"
	"github.com/djnz00/strata/errs"
	"github.com/djnz00/strata/format"
	"github.com/djnz00/strata/section"
)

// Builder accumulates values for one block through a bounded encoder.
//
// Append returns false once the payload window is exhausted; the caller
// seals the block and starts a new Builder for the next index. A Builder
// is not safe for concurrent use.
type Builder struct {
	enc      encoding.IntEncoder
	buf      []byte
	flag     section.BlockFlag
	seriesID uint32
	index    uint32
	sealed   bool
}

// NewBuilder creates a Builder for the given block identity.
//
// Parameters:
//   - seriesID: Owning series
//   - index: Block position within the series
//   - capacity: Payload window in bytes; bounds the encoded size, not the
//     value count
//   - encType: Payload encoding (Plain, Delta or DeltaDelta)
//   - compType: Compression applied when the sealed block is marshaled
//
// Returns:
//   - *Builder: Ready builder
//   - error: ErrInvalidBlockCapacity, or flag validation errors for an
//     unknown encoding or compression type
func NewBuilder(seriesID, index uint32, capacity int, encType format.EncodingType, compType format.CompressionType) (*Builder, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidBlockCapacity, capacity)
	}

	flag := section.NewBlockFlag()
	flag.SetEncoding(encType)
	flag.SetCompression(compType)
	if err := flag.Validate(); err != nil {
		return nil, err
	}

	buf := make([]byte, capacity)
	enc, err := encoding.CreateEncoder(encType, buf)
	if err != nil {
		return nil, err
	}

	return &Builder{
		enc:      enc,
		buf:      buf,
		flag:     flag,
		seriesID: seriesID,
		index:    index,
	}, nil
}

// Append writes one value.
//
// Returns:
//   - bool: true if the value was written, false if the payload window is
//     exhausted or the builder is sealed. The builder state is unchanged
//     on false.
func (b *Builder) Append(v int64) bool {
	if b.sealed {
		return false
	}

	return b.enc.Write(v)
}

// AppendSlice writes values until one does not fit, returning the number
// written.
func (b *Builder) AppendSlice(values []int64) int {
	for i, v := range values {
		if !b.Append(v) {
			return i
		}
	}

	return len(values)
}

// Len returns the number of values appended so far.
func (b *Builder) Len() int {
	return b.enc.Count()
}

// BytesUsed returns the encoded payload size so far.
func (b *Builder) BytesUsed() int {
	return b.enc.Pos()
}

// Capacity returns the payload window size in bytes.
func (b *Builder) Capacity() int {
	return len(b.buf)
}

// Sealed reports whether Seal has been called.
func (b *Builder) Sealed() bool {
	return b.sealed
}

// Seal finalizes the header and returns the immutable block. The builder
// accepts no further appends.
//
// Sealing an empty builder is allowed and yields a block with zero values.
//
// Returns:
//   - *Block: Sealed block
//   - error: ErrBlockSealed if Seal was already called
func (b *Builder) Seal() (*Block, error) {
	if b.sealed {
		return nil, errs.ErrBlockSealed
	}
	b.sealed = true

	hdr := section.BlockHeader{
		Flag:      b.flag,
		Index:     b.index,
		Count:     uint32(b.enc.Count()), //nolint:gosec
		RawLength: uint32(b.enc.Pos()),   //nolint:gosec
	}

	return &Block{
		hdr:      hdr,
		payload:  b.buf[:b.enc.Pos()],
		seriesID: b.seriesID,
	}, nil
}
