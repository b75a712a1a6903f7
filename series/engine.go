package series

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/djnz00/strata/block"
	"github.com/djnz00/strata/cache"
	"github.com/djnz00/strata/dataframe"
	"github.com/djnz00/strata/errs"
	"github.com/djnz00/strata/format"
	"github.com/djnz00/strata/internal/options"
	"github.com/djnz00/strata/stats"
	"github.com/djnz00/strata/store"
)

// frameDocName is the document name the catalog is persisted under.
const frameDocName = "dataframe"

// Engine drives append-only series over one store.
//
// Methods are driven from the engine owner's goroutine; see the package
// documentation for how store callbacks hand Series back to the owner.
type Engine struct {
	st     store.Store
	mgr    *cache.Manager
	logger *slog.Logger

	blockSize int
	encType   format.EncodingType
	compType  format.CompressionType
	withStats bool

	// mu guards frame and open against the store dispatcher goroutine,
	// which registers series from Open completions.
	mu    sync.Mutex
	frame *dataframe.Frame
	open  map[uint32]*Series
	down  bool
}

// NewEngine creates an Engine over st.
//
// Parameters:
//   - st: The backend; the engine adopts its cache manager
//   - opts: Functional options, see WithBlockSize and friends
//
// Returns:
//   - *Engine: Ready engine
//   - error: Option validation errors
func NewEngine(st store.Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		st:        st,
		mgr:       st.Mgr(),
		logger:    slog.Default(),
		blockSize: DefaultBlockSize,
		encType:   format.TypeDeltaDelta,
		compType:  format.CompressionZstd,
		frame:     dataframe.New(),
		open:      make(map[uint32]*Series),
	}

	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Store returns the engine's backend.
func (e *Engine) Store() store.Store {
	return e.st
}

// Frame returns the engine's catalog. The caller must not retain it across
// a LoadFrame.
func (e *Engine) Frame() *dataframe.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.frame
}

// OpenSeries locates or creates the series at (parent, name) and hands it
// to fn once the store's open completes.
//
// On success the series resumes appending at the store's block offset and
// is registered in the catalog. On failure the cache handle is released
// and the path may be retried. fn fires exactly once, on the store's
// dispatcher goroutine, with a nil Series on failure. The owner goroutine
// must not drive the engine between issuing OpenSeries and observing its
// completion; the open path touches the shared cache bookkeeping.
//
// Returns:
//   - error: ErrInvalidSeriesName or ErrEngineShutdown; fn does not fire
//     when an error is returned
func (e *Engine) OpenSeries(parent, name string, fn func(*Series, store.Result)) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", errs.ErrInvalidSeriesName)
	}

	e.mu.Lock()
	if e.down {
		e.mu.Unlock()
		return errs.ErrEngineShutdown
	}
	e.mu.Unlock()

	s := &Series{
		eng:    e,
		st:     e.st,
		mgr:    e.mgr,
		parent: parent,
		name:   name,
	}
	if e.withStats {
		s.agg = stats.NewAggregator()
	}

	s.id = e.mgr.Alloc(s.unload)

	e.st.Open(s.id, parent, name, func(res store.OpenResult) {
		if !res.IsOK() {
			e.mgr.Release(s.id)
			fn(nil, res.Result)

			return
		}

		if err := s.activate(res.BlockOffset); err != nil {
			// The store opened but a builder could not be constructed;
			// surface as a structured event and roll back.
			e.mgr.Release(s.id)
			fn(nil, store.Fail(store.Errorf("open", s.id, name, "%s", err)))

			return
		}

		e.register(s)
		fn(s, res.Result)
	})

	return nil
}

// register adds an opened series to the engine maps and the catalog.
// Runs on the dispatcher goroutine.
func (e *Engine) register(s *Series) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if def, ok := e.frame.Lookup(s.parent, s.name); ok {
		// Resuming a cataloged series: carry the historical value count.
		s.count = def.Count
	}

	e.open[s.id] = s
	e.frame.Upsert(s.def())

	e.logger.Info("series opened",
		slog.String("parent", s.parent),
		slog.String("name", s.name),
		slog.Uint64("series", uint64(s.id)),
		slog.Uint64("offset", uint64(s.base)))
}

// unregister removes a closing series and records its final catalog entry.
func (e *Engine) unregister(s *Series) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.open, s.id)
	e.frame.Upsert(s.def())
}

// Sync flushes every open series and waits until the store has discharged
// all their outstanding saves.
//
// Returns:
//   - error: The first flush error, or ctx.Err if the context expires
//     while waiting for discharge
func (e *Engine) Sync(ctx context.Context) error {
	e.mu.Lock()
	series := make([]*Series, 0, len(e.open))
	for _, s := range e.open {
		series = append(series, s)
	}
	e.mu.Unlock()

	var inflight []*block.Block
	for _, s := range series {
		if err := s.Flush(); err != nil {
			return err
		}

		if blk := s.lastSaved; blk != nil {
			inflight = append(inflight, blk)
		}
	}

	// Saves queue FIFO per store, so waiting on each series' newest save
	// covers the older ones too.
	g, ctx := errgroup.WithContext(ctx)
	for _, blk := range inflight {
		g.Go(func() error {
			for blk.Pinned() {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(200 * time.Microsecond):
				}
			}

			return nil
		})
	}

	return g.Wait() //nolint:wrapcheck
}

// SaveFrame persists the catalog through the store's document path. The
// catalog is snapshotted with current per-series offsets before the save
// is queued, so concurrent appends cannot tear the document.
func (e *Engine) SaveFrame(fn store.CompleteFn) {
	e.mu.Lock()
	for _, s := range e.open {
		e.frame.Upsert(s.def())
	}

	snapshot := dataframe.New()
	for _, def := range e.frame.Series {
		snapshot.Upsert(def)
	}
	e.mu.Unlock()

	e.st.SaveDF(frameDocName, snapshot, fn)
}

// LoadFrame replaces the catalog with the persisted document, bounding the
// load by maxSize bytes. Completes NotFound when no catalog was ever
// saved; the in-memory catalog is unchanged unless the load succeeds.
func (e *Engine) LoadFrame(maxSize int64, fn store.CompleteFn) {
	loaded := dataframe.New()
	e.st.LoadDF(frameDocName, loaded, maxSize, func(res store.Result) {
		if res.IsOK() {
			e.mu.Lock()
			e.frame = loaded
			e.mu.Unlock()
		}
		fn(res)
	})
}

// Shutdown tears the engine down without flushing: queued saves are
// drained, the cache is cleared, and the store dispatcher stops. Call
// Sync first when unsaved data must survive.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	if e.down {
		e.mu.Unlock()
		return
	}
	e.down = true
	e.mu.Unlock()

	e.st.Shutdown()
	e.logger.Info("engine shut down")
}
