package section

const (
	// Bit masks for the Options field
	ReservedMask    = 0x0001 // Mask for reserved bit (bit 0), must be 0
	EndiannessMask  = 0x0002 // Mask for endianness bit (bit 1)
	UnusedBitsMask  = 0x000C // Mask for unused bits (bits 2-3), must be 0
	MagicNumberMask = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicBlockV1Opt is the version 1 magic number for the block format,
	// stored in bits 4-15 of the Options field.
	MagicBlockV1Opt = 0xB010
)

// Header layout in the persisted block
const (
	HeaderSize = 24 // fixed block header size in bytes

	flagOffset      = 0  // byte offset of the Flag field
	indexOffset     = 4  // byte offset of the Index field
	countOffset     = 8  // byte offset of the Count field
	lengthOffset    = 12 // byte offset of the Length field
	rawLengthOffset = 16 // byte offset of the RawLength field
	reservedOffset  = 20 // byte offset of the Reserved field
)
