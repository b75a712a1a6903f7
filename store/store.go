package store

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/djnz00/strata/block"
	"github.com/djnz00/strata/cache"
	"github.com/djnz00/strata/section"
)

// DocBuilder produces a whole document, such as the data-frame catalog, as
// a byte stream. The backend decides where the stream lands.
type DocBuilder interface {
	// WriteDocument writes the complete document to w.
	WriteDocument(w io.Writer) error
}

// DocLoader consumes a whole document as a byte stream. Implementations
// must treat the input as untrusted; the store additionally bounds the
// stream by the caller-supplied maximum size.
type DocLoader interface {
	// ReadDocument reads and validates the complete document from r.
	ReadDocument(r io.Reader) error
}

// Store is the contract every durable backend implements. It is the sole
// extension point through which series and data-frame documents become
// durable.
//
// A Store owns the storage-engine instance's cache.Manager, so one object
// both decides what stays resident and where blocks ultimately live. All
// asynchronous operations queue on the store's dispatcher goroutine and
// complete through their callback exactly once; see the package
// documentation for the execution and error model.
type Store interface {
	// Mgr returns the cache manager owned by this store.
	Mgr() *cache.Manager

	// Open locates or creates durable storage for a series and yields the
	// block index at which appends should resume. The series must be
	// unopened; a successful Open moves it to the open state, a failed one
	// leaves it reopenable.
	Open(seriesID uint32, parent, name string, fn OpenFn)

	// Close releases backend resources for an open series. It does not
	// flush unsaved blocks; that is the caller's responsibility before
	// calling Close.
	Close(seriesID uint32, fn CompleteFn)

	// LoadHdr fetches one persisted block header into hdr. Synchronous;
	// false means not present (faults read as misses).
	LoadHdr(seriesID, index uint32, hdr *section.BlockHeader) bool

	// Load fetches one persisted block into dst. Synchronous; false means
	// not present (faults read as misses).
	Load(seriesID, index uint32, dst *block.Block) bool

	// Save hands a block to the backend for persistence, fire-and-forget.
	// The store pins the block for the duration; the caller must not
	// mutate it until the pin is released, which happens once the write is
	// durable or otherwise discharged.
	Save(b *block.Block)

	// LoadDF loads a whole document through loader, bounding the bytes
	// consumed by maxSize. Completes NotFound when no such document
	// exists.
	LoadDF(name string, loader DocLoader, maxSize int64, fn CompleteFn)

	// SaveDF persists a whole document produced by builder.
	SaveDF(name string, builder DocBuilder, fn CompleteFn)

	// Shutdown drains queued operations, stops the dispatcher and clears
	// the cache manager. Operations submitted afterwards complete with a
	// shutdown error event.
	Shutdown()
}

// Factory constructs a new Store instance. It is the single entry point a
// backend module exposes.
type Factory func() Store

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a backend factory available under the given name.
// Registering a duplicate name panics; backends register from init.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("store: Register called twice for backend %q", name))
	}
	registry[name] = factory
}

// New constructs a Store from the named registered backend.
//
// Returns:
//   - Store: A fresh backend instance
//   - error: When no backend is registered under name
func New(name string) (Store, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("store: unknown backend %q (registered: %v)", name, Backends())
	}

	return factory(), nil
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
