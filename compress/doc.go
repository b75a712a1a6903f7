// Package compress provides compression and decompression codecs for sealed
// block payloads.
//
// Compression is the second of two stages applied to a block before it is
// handed to a store:
//
//  1. Encoding: exploits patterns in the values (delta, delta-of-delta, varint)
//  2. Compression: further reduces the encoded payload using general-purpose
//     algorithms
//
// The compress package implements the second stage. The compression type used
// for a block is recorded in its header, so readers always know how to undo
// it.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Supported Algorithms
//
// NoOp (format.CompressionNone): returns payloads unchanged. Use when the
// encoding already squeezed out the redundancy, or when CPU matters more
// than storage.
//
// Zstandard (format.CompressionZstd): best compression ratio, moderate
// speed. Builds with the cgo-backed implementation when cgo is available and
// falls back to the pure-Go implementation otherwise; the wire format is
// identical. Best for cold blocks and storage-constrained deployments.
//
// S2 (format.CompressionS2): balanced speed and ratio. Good default for hot
// append paths.
//
// LZ4 (format.CompressionLZ4): fastest decompression. Best for read-heavy
// workloads where blocks cycle through the cache frequently.
//
// # Thread Safety
//
// All codec implementations are stateless values or use internal pooling and
// are safe for concurrent use.
//
// # Error Handling
//
// Compress only fails on algorithm-level errors, which are rare.
// Decompress fails on corrupted or mismatched input; block readers treat
// that as a corrupt block. All errors carry context for debugging.
package compress
