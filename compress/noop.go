package compress

// NoOpCompressor passes block payloads through unchanged.
//
// Useful when the encoded payload is already dense (delta-of-delta output
// often is), for measuring compression overhead in benchmarks, and for
// debugging with readable on-disk payloads.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-op compressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns the input slice as-is, without copying.
//
// The returned slice shares the input's memory. Callers must not modify the
// input while the returned slice is in use.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is, without copying.
//
// The returned slice shares the input's memory. Callers must not modify the
// input while the returned slice is in use.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
