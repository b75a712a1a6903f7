// Package section defines the low-level binary structures for the persisted
// block format.
//
// Every block payload written through a store backend is preceded by a fixed
// 24-byte header. The header is self-describing: a loader can size its
// buffers and select the decode path from the header alone, without any
// out-of-band metadata.
//
// # Header Format
//
// BlockHeader (24 bytes):
//
//	Bytes  | Field     | Type   | Description
//	-------|-----------|--------|------------------------------------------
//	0-3    | Flag      | uint32 | Magic, endianness, encoding, compression
//	4-7    | Index     | uint32 | Block position within its series
//	8-11   | Count     | uint32 | Number of encoded values in the payload
//	12-15  | Length    | uint32 | Payload bytes as persisted (compressed)
//	16-19  | RawLength | uint32 | Payload bytes before compression
//	20-23  | Reserved  | uint32 | Unused, written as zero
//
// RawLength bounds the decompression buffer; it equals Length when the
// payload is uncompressed.
//
// # Flag Format
//
// The flag packs into 4 bytes:
//
//	Byte 0-1 (Options, 16 bits, always little-endian):
//	  Bit 0: Reserved (must be 0)
//	  Bit 1: Endianness (0=little-endian, 1=big-endian)
//	  Bits 2-3: Unused (must be 0)
//	  Bits 4-15: Magic number (0xB010 for block format v1)
//
//	Byte 2 (EncodingType): 0x1=Plain, 0x2=Delta, 0x3=DeltaDelta
//	Byte 3 (CompressionType): 0x1=None, 0x2=Zstd, 0x3=S2, 0x4=LZ4
//
// The Options field itself is always little-endian; its endianness bit
// selects the byte order of the remaining header fields and nothing else
// (the encoded payload is byte-oriented and has no endianness).
//
// # Usage
//
// Serializing:
//
//	hdr := section.NewBlockHeader(blockIndex)
//	hdr.Flag.SetEncoding(format.TypeDeltaDelta)
//	hdr.Count = 512
//	buf := hdr.AppendTo(buf)
//
// Parsing:
//
//	hdr, err := section.ParseBlockHeader(data)
//	if err != nil {
//	    return err
//	}
//	payload := data[section.HeaderSize : section.HeaderSize+int(hdr.Length)]
//
// Most users should interact with the block package instead of using
// section directly.
package section
