// Package dataframe defines the catalog document of a store: the
// self-contained, versioned schema describing the set of series it holds.
//
// A Frame travels through the store's generic document operations — it
// implements store.DocBuilder and store.DocLoader — so any backend that
// supports documents can persist and restore the catalog without knowing
// its shape. The wire form is versioned JSON; loads bounded by the
// caller's maximum size defend against hostile input, and an unsupported
// version fails loudly instead of being reinterpreted.
package dataframe

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/djnz00/strata/errs"
	"github.com/djnz00/strata/internal/hash"
)

// FrameVersion is the document format version this package reads and
// writes.
const FrameVersion = 1

// DefaultMaxSize is a reasonable load bound for catalogs when the caller
// has no better estimate.
const DefaultMaxSize = 4 << 20 // 4MiB

// SeriesDef describes one series in the catalog.
type SeriesDef struct {
	// Parent and Name form the series path used for backend lookup.
	Parent string `json:"parent"`
	Name   string `json:"name"`

	// PathID is the xxHash64 of the path, the stable in-process key.
	PathID uint64 `json:"pathID"`

	// BlockOffset is the next block index to append, as of the last save.
	BlockOffset uint32 `json:"blockOffset"`

	// Count is the total number of values appended, as of the last save.
	Count uint64 `json:"count"`
}

// Frame is the catalog document: the versioned set of series definitions.
//
// Not safe for concurrent use.
type Frame struct {
	Version int         `json:"version"`
	Series  []SeriesDef `json:"series"`

	byPath map[uint64]int // PathID -> index in Series
}

// New creates an empty Frame at the current version.
func New() *Frame {
	return &Frame{
		Version: FrameVersion,
		byPath:  make(map[uint64]int),
	}
}

// PathID returns the stable 64-bit key of a (parent, name) series path.
func PathID(parent, name string) uint64 {
	return hash.PathID(parent, name)
}

// Lookup finds the definition for a series path.
//
// Returns:
//   - SeriesDef: The definition, zero value on a miss
//   - bool: Whether the path is in the catalog
func (f *Frame) Lookup(parent, name string) (SeriesDef, bool) {
	idx, ok := f.byPath[PathID(parent, name)]
	if !ok {
		return SeriesDef{}, false
	}

	return f.Series[idx], true
}

// Upsert inserts or replaces the definition for def's path. A zero
// def.PathID is filled in from the path.
func (f *Frame) Upsert(def SeriesDef) {
	if def.PathID == 0 {
		def.PathID = PathID(def.Parent, def.Name)
	}

	if idx, ok := f.byPath[def.PathID]; ok {
		f.Series[idx] = def
		return
	}

	f.byPath[def.PathID] = len(f.Series)
	f.Series = append(f.Series, def)
}

// Remove drops the definition for a series path, reporting whether it was
// present.
func (f *Frame) Remove(parent, name string) bool {
	id := PathID(parent, name)

	idx, ok := f.byPath[id]
	if !ok {
		return false
	}

	f.Series = append(f.Series[:idx], f.Series[idx+1:]...)
	delete(f.byPath, id)
	for i := idx; i < len(f.Series); i++ {
		f.byPath[f.Series[i].PathID] = i
	}

	return true
}

// Len returns the number of series in the catalog.
func (f *Frame) Len() int {
	return len(f.Series)
}

// WriteDocument implements store.DocBuilder, emitting the frame as JSON.
func (f *Frame) WriteDocument(w io.Writer) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode data frame: %w", err)
	}

	return nil
}

// ReadDocument implements store.DocLoader, replacing the frame contents
// with the decoded document.
//
// Returns:
//   - error: ErrInvalidFrameVersion for an unsupported version, decode
//     errors for malformed input; the frame is unchanged on error
func (f *Frame) ReadDocument(r io.Reader) error {
	var decoded Frame

	dec := json.NewDecoder(r)
	if err := dec.Decode(&decoded); err != nil {
		return fmt.Errorf("decode data frame: %w", err)
	}

	if decoded.Version != FrameVersion {
		return fmt.Errorf("%w: %d (supported: %d)",
			errs.ErrInvalidFrameVersion, decoded.Version, FrameVersion)
	}

	f.Version = decoded.Version
	f.Series = decoded.Series
	f.byPath = make(map[uint64]int, len(decoded.Series))
	for i := range f.Series {
		if f.Series[i].PathID == 0 {
			f.Series[i].PathID = PathID(f.Series[i].Parent, f.Series[i].Name)
		}
		f.byPath[f.Series[i].PathID] = i
	}

	return nil
}
