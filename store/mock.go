package store

import (
	"log/slog"

	"github.com/djnz00/strata/block"
	"github.com/djnz00/strata/section"
)

// MockStore is the deliberately inert backend: it persists nothing and
// exists to exercise callers against the contract's edges.
//
//   - Open always succeeds with block offset 0.
//   - Close always succeeds.
//   - Load and LoadHdr always report not found.
//   - Save discharges immediately; the data is dropped.
//   - LoadDF and SaveDF always complete with a structured error event,
//     never a silent empty success, establishing the required behavior for
//     backends that do not implement an operation.
type MockStore struct {
	*Base
}

var _ Store = (*MockStore)(nil)

// mockMaxBlocks keeps a real eviction policy in play even under the inert
// backend, so cache behavior in tests matches production wiring.
const mockMaxBlocks = 64

// NewMockStore creates a MockStore logging through logger (nil selects
// slog.Default).
func NewMockStore(logger *slog.Logger) *MockStore {
	return &MockStore{Base: NewBase(mockMaxBlocks, logger)}
}

// Open implements Store; it always succeeds with BlockOffset 0.
func (s *MockStore) Open(seriesID uint32, parent, name string, fn OpenFn) {
	s.RunOpen(seriesID, parent, name, fn, func() OpenResult {
		return OpenOK(0)
	})
}

// Close implements Store; it always succeeds.
func (s *MockStore) Close(seriesID uint32, fn CompleteFn) {
	s.RunClose(seriesID, fn, func() Result {
		return OK()
	})
}

// LoadHdr implements Store; nothing is ever present.
func (s *MockStore) LoadHdr(uint32, uint32, *section.BlockHeader) bool {
	return false
}

// Load implements Store; nothing is ever present.
func (s *MockStore) Load(uint32, uint32, *block.Block) bool {
	return false
}

// Save implements Store; the block is discharged without being written.
func (s *MockStore) Save(b *block.Block) {
	s.RunSave(b, func(*block.Block) {})
}

// LoadDF implements Store; document load is unsupported and reports a
// structured error, never an empty success.
func (s *MockStore) LoadDF(name string, _ DocLoader, _ int64, fn CompleteFn) {
	s.RunDoc("loadDF", name, fn, func() Result {
		return Fail(Errorf("loadDF", 0, name, "unsupported operation on mock backend"))
	})
}

// SaveDF implements Store; document save is unsupported and reports a
// structured error.
func (s *MockStore) SaveDF(name string, _ DocBuilder, fn CompleteFn) {
	s.RunDoc("saveDF", name, fn, func() Result {
		return Fail(Errorf("saveDF", 0, name, "unsupported operation on mock backend"))
	})
}

func init() {
	Register("mock", func() Store { return NewMockStore(nil) })
}
