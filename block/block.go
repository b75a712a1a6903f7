package block

import (
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/djnz00/strata/compress"
	"github.com/djnz00/strata/encoding"
	"github.com/djnz00/strata/errs"
	"github.com/djnz00/strata/section"
)

// Block is an immutable run of encoded int64 values owned by one series.
//
// The payload is kept encoded but uncompressed; compression is applied by
// Marshal and undone by Unmarshal. All methods except Pin/Unpin are
// read-only, so a Block is safe for concurrent use once constructed.
type Block struct {
	hdr      section.BlockHeader
	payload  []byte
	seriesID uint32
	pins     atomic.Int32
}

// FromParts constructs a Block from an already-parsed header and an
// uncompressed payload.
//
// Parameters:
//   - seriesID: Owning series
//   - hdr: Block header; RawLength must match len(payload)
//   - payload: Encoded, uncompressed values
//
// Returns:
//   - *Block: Constructed block
//   - error: Flag validation errors, or ErrBlockCorrupted on a length mismatch
func FromParts(seriesID uint32, hdr section.BlockHeader, payload []byte) (*Block, error) {
	if err := hdr.Flag.Validate(); err != nil {
		return nil, err
	}

	if len(payload) != int(hdr.RawLength) {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d",
			errs.ErrBlockCorrupted, len(payload), hdr.RawLength)
	}

	return &Block{hdr: hdr, payload: payload, seriesID: seriesID}, nil
}

// Unmarshal parses a persisted block: a 24-byte header followed by the
// compressed payload.
//
// The payload is decompressed eagerly and validated against the header's
// Length and RawLength fields, so a successfully unmarshaled block is
// ready for iteration.
//
// Returns:
//   - *Block: Parsed block
//   - error: Header validation errors, or ErrBlockCorrupted when the
//     payload does not match the header
func Unmarshal(seriesID uint32, data []byte) (*Block, error) {
	hdr, err := section.ParseBlockHeader(data)
	if err != nil {
		return nil, err
	}

	compressed := data[section.HeaderSize:]
	if len(compressed) != int(hdr.Length) {
		return nil, fmt.Errorf("%w: persisted payload is %d bytes, header says %d",
			errs.ErrBlockCorrupted, len(compressed), hdr.Length)
	}

	codec, err := compress.GetCodec(hdr.Flag.Compression())
	if err != nil {
		return nil, err
	}

	payload, err := codec.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrBlockCorrupted, err)
	}

	if len(payload) != int(hdr.RawLength) {
		return nil, fmt.Errorf("%w: decompressed to %d bytes, header says %d",
			errs.ErrBlockCorrupted, len(payload), hdr.RawLength)
	}

	return &Block{hdr: hdr, payload: payload, seriesID: seriesID}, nil
}

// UnmarshalFrom parses a persisted block into b, replacing its contents.
//
// It is the destination-buffer form of Unmarshal for callers that reuse a
// Block across loads. The pin count is left untouched.
//
// Returns:
//   - error: Same conditions as Unmarshal; b is unchanged on error
func (b *Block) UnmarshalFrom(seriesID uint32, data []byte) error {
	nb, err := Unmarshal(seriesID, data)
	if err != nil {
		return err
	}

	b.hdr = nb.hdr
	b.payload = nb.payload
	b.seriesID = nb.seriesID

	return nil
}

// SeriesID returns the owning series.
func (b *Block) SeriesID() uint32 {
	return b.seriesID
}

// Index returns the block position within its series.
func (b *Block) Index() uint32 {
	return b.hdr.Index
}

// Count returns the number of encoded values.
func (b *Block) Count() int {
	return int(b.hdr.Count)
}

// Header returns a copy of the block header.
//
// Length reflects the persisted size only for blocks read back through
// Unmarshal; blocks fresh from a Builder carry Length 0 until marshaled.
func (b *Block) Header() section.BlockHeader {
	return b.hdr
}

// RawSize returns the uncompressed payload size in bytes.
func (b *Block) RawSize() int {
	return len(b.payload)
}

// Marshal serializes the block to its persisted form: header followed by
// the compressed payload.
//
// Returns:
//   - []byte: Persisted representation
//   - error: Compression errors
func (b *Block) Marshal() ([]byte, error) {
	codec, err := compress.GetCodec(b.hdr.Flag.Compression())
	if err != nil {
		return nil, err
	}

	compressed, err := codec.Compress(b.payload)
	if err != nil {
		return nil, err
	}

	hdr := b.hdr
	hdr.Length = uint32(len(compressed)) //nolint:gosec

	out := hdr.AppendTo(make([]byte, 0, section.HeaderSize+len(compressed)))

	return append(out, compressed...), nil
}

// Stats returns the compression statistics for the persisted form of the
// block. It compresses the payload to measure it; use after Marshal only
// when the numbers are worth the extra pass.
func (b *Block) Stats() (compress.CompressionStats, error) {
	codec, err := compress.GetCodec(b.hdr.Flag.Compression())
	if err != nil {
		return compress.CompressionStats{}, err
	}

	compressed, err := codec.Compress(b.payload)
	if err != nil {
		return compress.CompressionStats{}, err
	}

	return compress.CompressionStats{
		Algorithm:      b.hdr.Flag.Compression(),
		OriginalSize:   int64(len(b.payload)),
		CompressedSize: int64(len(compressed)),
	}, nil
}

// Values returns an iterator over the decoded values, in append order.
//
// The iterator is tolerant: on a malformed payload it stops early rather
// than failing. Use Decode when corruption must surface as an error.
func (b *Block) Values() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		dec, err := encoding.CreateDecoder(b.hdr.Flag.Encoding(), b.payload)
		if err != nil {
			return
		}

		for range b.hdr.Count {
			v, ok := dec.Read()
			if !ok {
				return
			}

			if !yield(v) {
				return
			}
		}
	}
}

// Decode appends all values to dst and returns the extended slice.
//
// Unlike Values, Decode is strict: it fails if the payload holds fewer
// values than the header claims or carries trailing bytes.
//
// Returns:
//   - []int64: dst with the decoded values appended
//   - error: ErrBlockCorrupted on a malformed payload
func (b *Block) Decode(dst []int64) ([]int64, error) {
	dec, err := encoding.CreateDecoder(b.hdr.Flag.Encoding(), b.payload)
	if err != nil {
		return dst, err
	}

	for i := range b.hdr.Count {
		v, ok := dec.Read()
		if !ok {
			return dst, fmt.Errorf("%w: decoded %d of %d values",
				errs.ErrBlockCorrupted, i, b.hdr.Count)
		}

		dst = append(dst, v)
	}

	if dec.Pos() != len(b.payload) {
		return dst, fmt.Errorf("%w: %d trailing payload bytes",
			errs.ErrBlockCorrupted, len(b.payload)-dec.Pos())
	}

	return dst, nil
}

// Pin marks the block as in-flight, preventing cache eviction until the
// matching Unpin.
func (b *Block) Pin() {
	b.pins.Add(1)
}

// Unpin releases one Pin. Calls must pair with Pin.
func (b *Block) Unpin() {
	b.pins.Add(-1)
}

// Pinned reports whether the block has any outstanding pins.
func (b *Block) Pinned() bool {
	return b.pins.Load() > 0
}
