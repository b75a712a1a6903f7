// Package block implements the unit of caching and persistence: a bounded
// run of encoded int64 values owned by one series.
//
// A block has two forms:
//
//   - In memory it holds the encoded but uncompressed payload, ready for
//     iteration. This is the form the cache keeps and the form a Builder
//     produces.
//   - At rest it is a 24-byte section.BlockHeader followed by the
//     compressed payload. Marshal produces this form and Unmarshal
//     consumes it.
//
// # Writing
//
// A Builder appends values through a bounded encoder until the payload
// window is exhausted:
//
//	bld, err := block.NewBuilder(seriesID, 0, 4096, format.TypeDeltaDelta, format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	for _, v := range values {
//	    if !bld.Append(v) {
//	        break // block full, seal and start the next one
//	    }
//	}
//	blk, err := bld.Seal()
//
// # Reading
//
//	for v := range blk.Values() {
//	    process(v)
//	}
//
// Values is tolerant: it stops early on a malformed payload. Use Decode
// when corruption must surface as an error.
//
// # Pinning
//
// Pin marks a block as in-flight (typically during an asynchronous save)
// so the cache will not evict it. Pin and Unpin must be paired.
package block
