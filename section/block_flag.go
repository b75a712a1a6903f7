package section

import (
	"github.com/djnz00/strata/endian"
	"github.com/djnz00/strata/errs"
	"github.com/djnz00/strata/format"
)

// BlockFlag represents the packed field for various flags in the block header.
type BlockFlag struct {
	// Options is a packed field for various options.
	// Bit 0 is reserved, must be set to 0.
	// Bit 1 is endianness flag, 0 means little-endian, 1 means big-endian.
	// Bit 2-3 are unused, must be set to 0.
	// Bit 4-15 are magic number to identify the block format:
	//   - 0xB010 (0b1011_0000_0001_0000): Block format v1
	Options uint16

	// EncodingType is an enum indicating the encoding used for the block payload.
	EncodingType uint8
	// CompressionType is an enum indicating the compression used for the block payload.
	CompressionType uint8
}

var (
	validEncodings = map[uint8]struct{}{
		uint8(format.TypePlain):      {},
		uint8(format.TypeDelta):      {},
		uint8(format.TypeDeltaDelta): {},
	}

	validCompressions = map[uint8]struct{}{
		uint8(format.CompressionNone): {},
		uint8(format.CompressionZstd): {},
		uint8(format.CompressionS2):   {},
		uint8(format.CompressionLZ4):  {},
	}
)

// NewBlockFlag creates a new BlockFlag with default settings:
// delta-of-delta encoding, zstd compression, little-endian byte order.
func NewBlockFlag() BlockFlag {
	flag := BlockFlag{
		Options:         MagicBlockV1Opt,
		EncodingType:    uint8(format.TypeDeltaDelta),
		CompressionType: uint8(format.CompressionZstd),
	}
	flag.WithLittleEndian()

	return flag
}

// IsLittleEndian returns whether the block data is little-endian.
func (f BlockFlag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// IsBigEndian returns whether the block data is big-endian.
func (f BlockFlag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *BlockFlag) WithLittleEndian() {
	f.Options &= ^uint16(EndiannessMask)
}

// WithBigEndian sets big-endian byte order.
func (f *BlockFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetMagicNumber returns the magic number from the Options field.
func (f BlockFlag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// Encoding returns the payload encoding type.
func (f BlockFlag) Encoding() format.EncodingType {
	return format.EncodingType(f.EncodingType)
}

// SetEncoding sets the payload encoding type.
func (f *BlockFlag) SetEncoding(enc format.EncodingType) {
	f.EncodingType = uint8(enc)
}

// Compression returns the payload compression type.
func (f BlockFlag) Compression() format.CompressionType {
	return format.CompressionType(f.CompressionType)
}

// SetCompression sets the payload compression type.
func (f *BlockFlag) SetCompression(compression format.CompressionType) {
	f.CompressionType = uint8(compression)
}

// IsValidMagicNumber checks if the magic number is valid.
func (f BlockFlag) IsValidMagicNumber() bool {
	return f.GetMagicNumber() == MagicBlockV1Opt
}

// IsValidEncoding checks if the encoding type is valid.
func (f BlockFlag) IsValidEncoding() bool {
	_, ok := validEncodings[f.EncodingType]

	return ok
}

// IsValidCompression checks if the compression type is valid.
func (f BlockFlag) IsValidCompression() bool {
	_, ok := validCompressions[f.CompressionType]

	return ok
}

// Validate checks if the flag contains valid values.
func (f BlockFlag) Validate() error {
	if !f.IsValidMagicNumber() {
		return errs.ErrInvalidHeaderFlags
	}

	if !f.IsValidEncoding() {
		return errs.ErrInvalidHeaderFlags
	}

	if !f.IsValidCompression() {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}

// GetEndianEngine returns the appropriate endian engine based on the flag.
func (f BlockFlag) GetEndianEngine() endian.EndianEngine {
	if f.IsLittleEndian() {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}
