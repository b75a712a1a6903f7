package store

import (
	"bytes"
	"log/slog"
	"sync"

	"github.com/djnz00/strata/block"
	"github.com/djnz00/strata/internal/hash"
	"github.com/djnz00/strata/internal/pool"
	"github.com/djnz00/strata/section"
)

// memArea is the durable state of one series path: its persisted blocks by
// index and the resume watermark.
type memArea struct {
	parent string
	name   string

	blocks map[uint32][]byte // persisted form: header + compressed payload
	last   uint32            // highest persisted index, valid when hasAny
	hasAny bool
	open   bool
}

// MemStore is the full-contract in-memory backend. It persists blocks and
// documents to process memory, keyed by the xxHash64 path ID of
// (parent, name), and honors every part of the Store contract including
// resume offsets on reopen. It is the reference backend for tests and for
// callers that want the engine without durability.
type MemStore struct {
	*Base

	mu    sync.Mutex
	areas map[uint64]*memArea
	bound map[uint32]*memArea // seriesID -> area while open
	docs  map[string][]byte
}

var _ Store = (*MemStore)(nil)

// memMaxBlocks is the default resident budget; use NewMemStoreSize when
// the working set is known.
const memMaxBlocks = 1024

// NewMemStore creates a MemStore with the default cache budget, logging
// through slog.Default.
func NewMemStore() *MemStore {
	return NewMemStoreSize(memMaxBlocks, nil)
}

// NewMemStoreSize creates a MemStore with an explicit resident-block
// budget and logger (nil selects slog.Default).
func NewMemStoreSize(maxBlocks int, logger *slog.Logger) *MemStore {
	return &MemStore{
		Base:  NewBase(maxBlocks, logger),
		areas: make(map[uint64]*memArea),
		bound: make(map[uint32]*memArea),
		docs:  make(map[string][]byte),
	}
}

// Open implements Store. Reopening a previously closed path resumes at
// the block index after the last persisted block; opening a path that is
// already open by another seriesID fails with a structured event.
func (s *MemStore) Open(seriesID uint32, parent, name string, fn OpenFn) {
	s.RunOpen(seriesID, parent, name, fn, func() OpenResult {
		pathID := hash.PathID(parent, name)

		s.mu.Lock()
		defer s.mu.Unlock()

		area, ok := s.areas[pathID]
		if !ok {
			area = &memArea{
				parent: parent,
				name:   name,
				blocks: make(map[uint32][]byte),
			}
			s.areas[pathID] = area
		}

		if area.open {
			return OpenFail(Errorf("open", seriesID, name, "path already open"))
		}

		area.open = true
		s.bound[seriesID] = area

		if !area.hasAny {
			return OpenOK(0)
		}

		return OpenOK(area.last + 1)
	})
}

// Close implements Store, releasing the path binding. Persisted data
// survives for a later reopen.
func (s *MemStore) Close(seriesID uint32, fn CompleteFn) {
	s.RunClose(seriesID, fn, func() Result {
		s.mu.Lock()
		defer s.mu.Unlock()

		if area, ok := s.bound[seriesID]; ok {
			area.open = false
			delete(s.bound, seriesID)
		}

		return OK()
	})
}

// LoadHdr implements Store.
func (s *MemStore) LoadHdr(seriesID, index uint32, hdr *section.BlockHeader) bool {
	data, ok := s.persisted(seriesID, index)
	if !ok {
		return false
	}

	parsed, err := section.ParseBlockHeader(data)
	if err != nil {
		// Fault on the hot path reads as a miss.
		return false
	}
	*hdr = parsed

	return true
}

// Load implements Store.
func (s *MemStore) Load(seriesID, index uint32, dst *block.Block) bool {
	data, ok := s.persisted(seriesID, index)
	if !ok {
		return false
	}

	return dst.UnmarshalFrom(seriesID, data) == nil
}

// persisted returns the persisted bytes of one block of an open series.
func (s *MemStore) persisted(seriesID, index uint32) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	area, ok := s.bound[seriesID]
	if !ok {
		return nil, false
	}

	data, ok := area.blocks[index]

	return data, ok
}

// Save implements Store. The block is marshaled (compressed) on the
// dispatcher goroutine, stored, and then discharged.
func (s *MemStore) Save(b *block.Block) {
	s.RunSave(b, func(blk *block.Block) {
		data, err := blk.Marshal()
		if err != nil {
			s.Logger().Error("save failed",
				slog.Uint64("series", uint64(blk.SeriesID())),
				slog.Uint64("block", uint64(blk.Index())),
				slog.Any("error", err))

			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		area, ok := s.bound[blk.SeriesID()]
		if !ok {
			s.Logger().Warn("save dropped: series unbound",
				slog.Uint64("series", uint64(blk.SeriesID())),
				slog.Uint64("block", uint64(blk.Index())))

			return
		}

		area.blocks[blk.Index()] = data
		if !area.hasAny || blk.Index() > area.last {
			area.last = blk.Index()
			area.hasAny = true
		}
	})
}

// LoadDF implements Store. Absent documents complete NotFound; documents
// larger than maxSize complete with an error event before any bytes reach
// the loader.
func (s *MemStore) LoadDF(name string, loader DocLoader, maxSize int64, fn CompleteFn) {
	s.RunDoc("loadDF", name, fn, func() Result {
		s.mu.Lock()
		doc, ok := s.docs[name]
		s.mu.Unlock()

		if !ok {
			return NotFound()
		}

		if maxSize > 0 && int64(len(doc)) > maxSize {
			return Fail(Errorf("loadDF", 0, name,
				"document is %d bytes, limit %d", len(doc), maxSize))
		}

		if err := loader.ReadDocument(bytes.NewReader(doc)); err != nil {
			return Fail(Errorf("loadDF", 0, name, "%s", err))
		}

		return OK()
	})
}

// SaveDF implements Store, replacing any previous document of that name.
func (s *MemStore) SaveDF(name string, builder DocBuilder, fn CompleteFn) {
	s.RunDoc("saveDF", name, fn, func() Result {
		buf := pool.GetFrameBuffer()
		defer pool.PutFrameBuffer(buf)

		if err := builder.WriteDocument(buf); err != nil {
			return Fail(Errorf("saveDF", 0, name, "%s", err))
		}

		doc := make([]byte, buf.Len())
		copy(doc, buf.Bytes())

		s.mu.Lock()
		s.docs[name] = doc
		s.mu.Unlock()

		return OK()
	})
}

func init() {
	Register("mem", func() Store { return NewMemStore() })
}
