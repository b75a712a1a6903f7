package section

import (
	"github.com/djnz00/strata/errs"
)

// BlockHeader represents the fixed-size header preceding every persisted
// block payload. It is self-describing: a loader needs nothing beyond the
// header to size buffers and select the decode path.
type BlockHeader struct {
	// Flag is a packed field for byte order, encoding, compression and
	// the format magic number.
	Flag BlockFlag // byte offset 0-3

	// Index is the block position within its series.
	Index uint32 // byte offset 4-7
	// Count is the number of encoded values in the payload.
	Count uint32 // byte offset 8-11
	// Length is the payload byte length as persisted, after compression.
	Length uint32 // byte offset 12-15
	// RawLength is the payload byte length before compression. It bounds
	// the decompression buffer and equals Length when uncompressed.
	RawLength uint32 // byte offset 16-19
	// Reserved is unused and written as zero.
	Reserved uint32 // byte offset 20-23
}

// NewBlockHeader creates a new BlockHeader for the given block index with
// default flags. Count, Length and RawLength are set when the block is sealed.
func NewBlockHeader(index uint32) *BlockHeader {
	return &BlockHeader{
		Flag:  NewBlockFlag(),
		Index: index,
	}
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 24 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 24 bytes, or flag validation errors
func (h *BlockHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// The Options field itself is always little-endian; it carries the
	// endianness bit that selects the engine for the remaining fields.
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.EncodingType = data[2]
	h.Flag.CompressionType = data[3]

	engine := h.Flag.GetEndianEngine()

	h.Index = engine.Uint32(data[indexOffset : indexOffset+4])
	h.Count = engine.Uint32(data[countOffset : countOffset+4])
	h.Length = engine.Uint32(data[lengthOffset : lengthOffset+4])
	h.RawLength = engine.Uint32(data[rawLengthOffset : rawLengthOffset+4])
	h.Reserved = engine.Uint32(data[reservedOffset : reservedOffset+4])

	return h.Flag.Validate()
}

// Bytes serializes the BlockHeader into a new byte slice.
func (h *BlockHeader) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, HeaderSize))
}

// AppendTo appends the serialized header to dst and returns the extended slice.
func (h *BlockHeader) AppendTo(dst []byte) []byte {
	engine := h.Flag.GetEndianEngine()

	dst = append(dst, byte(h.Flag.Options), byte(h.Flag.Options>>8))
	dst = append(dst, h.Flag.EncodingType, h.Flag.CompressionType)
	dst = engine.AppendUint32(dst, h.Index)
	dst = engine.AppendUint32(dst, h.Count)
	dst = engine.AppendUint32(dst, h.Length)
	dst = engine.AppendUint32(dst, h.RawLength)
	dst = engine.AppendUint32(dst, h.Reserved)

	return dst
}

// ParseBlockHeader parses a BlockHeader from the start of a byte slice.
//
// Unlike Parse, data may be longer than the header; trailing bytes (the
// payload) are ignored.
//
// Returns:
//   - BlockHeader: Parsed header struct
//   - error: ErrInvalidHeaderSize or flag validation errors
func ParseBlockHeader(data []byte) (BlockHeader, error) {
	if len(data) < HeaderSize {
		return BlockHeader{}, errs.ErrInvalidHeaderSize
	}

	h := BlockHeader{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return BlockHeader{}, err
	}

	return h, nil
}
