// Package encoding provides bounded-range integer codecs for block payloads.
//
// Every encoder in this package is bound at construction to a fixed output
// range and never allocates or grows it. Write reports whether the value fit;
// once the range is exhausted the caller seals the block and starts the next
// one. This is what lets blocks be fixed-size cache and persistence units.
//
// # Architecture
//
// The package is organized around two small interfaces:
//
//	type IntEncoder interface {
//	    Write(v int64) bool // encode one value, false when out of space
//	    Count() int         // number of values successfully written
//	    Pos() int           // bytes used so far
//	}
//
//	type IntDecoder interface {
//	    Read() (int64, bool) // decode the next value, false at end of data
//	    Count() int
//	    Pos() int
//	}
//
// PlainEncoder/PlainDecoder implement the base codec: zigzag mapping followed
// by varint encoding. DeltaEncoder/DeltaDecoder are generic wrappers that
// transform values into successive differences before handing them to any
// inner encoder or decoder. Wrappers compose, so second-order (delta-of-delta)
// encoding is just a nested wrapper:
//
//	enc := encoding.NewDeltaEncoder(encoding.NewDeltaEncoder(encoding.NewPlainEncoder(buf)))
//
// NewDeltaOfDeltaEncoder/NewDeltaOfDeltaDecoder provide this common nesting
// directly, and CreateEncoder/CreateDecoder select a codec from a
// format.EncodingType.
//
// # Value Encoding
//
// Values are mapped with zigzag encoding so small negative numbers stay
// small:
//
//	Positive: 0 → 0, 1 → 2, 2 → 4, 3 → 6
//	Negative: -1 → 1, -2 → 3, -3 → 5
//
// and then written as Protocol Buffers-style varints where the MSB marks
// continuation:
//
//	Value 0-127:     0xxxxxxx                    (1 byte)
//	Value 128-16383: 1xxxxxxx 0xxxxxxx           (2 bytes)
//	Value 16384+:    1xxxxxxx 1xxxxxxx 0xxxxxxx  (3+ bytes)
//
// A single value therefore occupies between 1 and 10 bytes. Delta wrapping
// uses wrapping two's-complement arithmetic, and decoding applies the same
// wrapping addition, so round-trips are exact over the entire int64 domain
// including math.MinInt64 and math.MaxInt64.
//
// # Compression characteristics
//
// For monotonic series with a regular step, delta-of-delta encoding stores
// one byte per value after the first two. Semi-regular series with small
// jitter typically take 1-2 bytes per value. Plain encoding is the fallback
// for values without exploitable structure.
//
// # Thread Safety
//
// Encoders and decoders are stateful and not safe for concurrent use. Use
// one instance per goroutine, or one per block, which is how the block
// package drives them.
package encoding
