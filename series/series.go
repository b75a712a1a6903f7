package series

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/djnz00/strata/block"
	"github.com/djnz00/strata/cache"
	"github.com/djnz00/strata/dataframe"
	"github.com/djnz00/strata/errs"
	"github.com/djnz00/strata/stats"
	"github.com/djnz00/strata/store"
)

// Series is one named, append-only sequence of blocks.
//
// A Series is handed out by Engine.OpenSeries and driven from the engine
// owner's goroutine. Values accumulate in the current block builder; full
// blocks are sealed, saved through the store and inserted into the cache.
type Series struct {
	eng *Engine
	st  store.Store
	mgr *cache.Manager

	id     uint32
	parent string
	name   string

	bld  *block.Builder
	base uint32 // first block index of this session, from open
	next uint32 // index of the block under construction

	// pending mirrors the values in the current builder so reads can see
	// them without sealing.
	pending []int64

	count     uint64
	lastSaved *block.Block
	agg       *stats.Aggregator
	closed    bool
	active    bool
}

// activate installs the resume offset and the first builder. Runs on the
// dispatcher goroutine before the open callback hands the series out.
func (s *Series) activate(offset uint32) error {
	bld, err := block.NewBuilder(s.id, offset, s.eng.blockSize, s.eng.encType, s.eng.compType)
	if err != nil {
		return err
	}

	s.base = offset
	s.next = offset
	s.bld = bld
	s.active = true

	return nil
}

// ID returns the series' cache handle, its in-process identity.
func (s *Series) ID() uint32 {
	return s.id
}

// Parent returns the parent component of the series path.
func (s *Series) Parent() string {
	return s.parent
}

// Name returns the name component of the series path.
func (s *Series) Name() string {
	return s.name
}

// Count returns the total number of values in the series, including any
// restored from the catalog on resume.
func (s *Series) Count() uint64 {
	return s.count
}

// NextIndex returns the index of the block currently being built.
func (s *Series) NextIndex() uint32 {
	return s.next
}

// Stats returns the series' order-statistics aggregator, nil unless the
// engine was built with WithStats. The aggregator sees values appended
// this session, as float64 samples.
func (s *Series) Stats() *stats.Aggregator {
	return s.agg
}

// def builds the series' catalog entry.
func (s *Series) def() dataframe.SeriesDef {
	return dataframe.SeriesDef{
		Parent:      s.parent,
		Name:        s.name,
		BlockOffset: s.next,
		Count:       s.count,
	}
}

// Append adds one value to the series.
//
// When the value does not fit the current block, the block is sealed,
// handed to the store's asynchronous save, and inserted into the cache;
// the insert may evict the globally least-recently-used block and fire its
// owner's unload callback on this goroutine. A fresh block then takes the
// value.
//
// Returns:
//   - error: ErrSeriesClosed / ErrSeriesNotOpen, or ErrInvalidBlockCapacity
//     when a single value cannot fit even an empty block
func (s *Series) Append(v int64) error {
	if s.closed {
		return errs.ErrSeriesClosed
	}
	if !s.active {
		return errs.ErrSeriesNotOpen
	}

	if s.agg != nil {
		s.agg.Add(float64(v))
	}

	if s.bld.Append(v) {
		s.pending = append(s.pending, v)
		s.count++

		return nil
	}

	if err := s.seal(); err != nil {
		return err
	}

	if !s.bld.Append(v) {
		return fmt.Errorf("%w: value %d does not fit an empty %d-byte block",
			errs.ErrInvalidBlockCapacity, v, s.eng.blockSize)
	}

	s.pending = append(s.pending, v)
	s.count++

	return nil
}

// Flush seals and saves the current block even when partially filled, so
// its values become loadable. An empty builder is left alone.
//
// Returns:
//   - error: ErrSeriesClosed, or builder errors
func (s *Series) Flush() error {
	if s.closed {
		return errs.ErrSeriesClosed
	}
	if !s.active {
		return errs.ErrSeriesNotOpen
	}

	if s.bld.Len() == 0 {
		return nil
	}

	return s.seal()
}

// seal finalizes the current block, ships it, and starts the next one.
func (s *Series) seal() error {
	blk, err := s.bld.Seal()
	if err != nil {
		return err
	}

	// Save before inserting: once the block is in the cache it is eligible
	// for eviction, and the unload callback treats shipped blocks as
	// discardable.
	s.st.Save(blk)
	s.lastSaved = blk
	s.next++
	s.mgr.Add(blk)

	bld, err := block.NewBuilder(s.id, s.next, s.eng.blockSize, s.eng.encType, s.eng.compType)
	if err != nil {
		return err
	}
	s.bld = bld
	s.pending = s.pending[:0]

	return nil
}

// unload is the cache eviction callback. Blocks below next were handed to
// Save before entering the cache, so they are either durable or held by
// the in-flight save and safe to drop from the tracking view; anything
// else is shipped now rather than lost.
func (s *Series) unload(blk *block.Block) {
	if blk.Index() >= s.next {
		s.st.Save(blk)
		return
	}

	s.eng.logger.Debug("block evicted",
		slog.Uint64("series", uint64(s.id)),
		slog.Uint64("block", uint64(blk.Index())),
		slog.Bool("inflight", blk.Pinned()))
}

// All returns an iterator over every value of this session in append
// order: sealed blocks first, resident ones straight from the cache and
// missing ones through the store's synchronous load path (re-entering the
// cache), then the values still in the open builder.
//
// Blocks that are neither resident nor loadable, as happens after
// eviction on a backend that does not persist, are skipped.
func (s *Series) All() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for idx := s.base; idx < s.next; idx++ {
			blk, ok := s.mgr.Lookup(s.id, idx)
			if !ok {
				loaded := &block.Block{}
				if !s.st.Load(s.id, idx, loaded) {
					continue
				}

				blk = loaded
				s.mgr.Add(blk)
			}

			for v := range blk.Values() {
				if !yield(v) {
					return
				}
			}
		}

		for _, v := range s.pending {
			if !yield(v) {
				return
			}
		}
	}
}

// Close flushes the series and releases its resources: resident blocks are
// dropped without callbacks, the cache handle is recycled, and the store's
// asynchronous close is issued. fn fires exactly once with the close
// outcome; the series accepts no operations once Close returns.
//
// Returns:
//   - error: ErrSeriesClosed on a double close, or flush errors (the
//     series stays open when flushing fails)
func (s *Series) Close(fn store.CompleteFn) error {
	if s.closed {
		return errs.ErrSeriesClosed
	}

	if err := s.Flush(); err != nil {
		return err
	}

	s.closed = true
	s.eng.unregister(s)

	// Every sealed block has been shipped, so resident entries are
	// discardable without durability callbacks.
	s.mgr.Free(s.id)
	s.mgr.Release(s.id)

	s.st.Close(s.id, fn)

	return nil
}
