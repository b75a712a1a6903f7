package compress

// ZstdCompressor provides Zstandard compression for block payloads.
//
// Zstd trades CPU for the best compression ratio of the supported
// algorithms, making it the right choice when blocks go cold:
//   - Long-term retention of sealed blocks
//   - Network transmission where bandwidth is limited
//   - Workloads where blocks are written once and rarely re-read
//
// Two implementations back this type, selected at build time:
//   - cgo builds use the libzstd bindings (fastest)
//   - pure-Go builds use the klauspost/compress implementation
//
// Both produce standard Zstandard frames, so data written by one
// implementation is readable by the other.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(payload)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
