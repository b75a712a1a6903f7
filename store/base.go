package store

import (
	"log/slog"
	"sync"

	"github.com/djnz00/strata/block"
	"github.com/djnz00/strata/cache"
)

// SeriesState is the per-series lifecycle state as seen through the Store
// contract.
type SeriesState uint8

const (
	// StateUnopened is the initial state; Open is the only valid
	// operation.
	StateUnopened SeriesState = iota
	// StateOpening marks an Open in flight.
	StateOpening
	// StateOpen permits block operations and Close.
	StateOpen
	// StateClosing marks a Close in flight.
	StateClosing
	// StateClosed marks a completed Close; the seriesID may be reused by a
	// new Open.
	StateClosed
)

func (s SeriesState) String() string {
	switch s {
	case StateUnopened:
		return "Unopened"
	case StateOpening:
		return "Opening"
	case StateOpen:
		return "Open"
	case StateClosing:
		return "Closing"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Base is the scaffold every backend embeds. It owns the pieces the Store
// contract shares across backends: the cache manager, the per-series state
// machine, the dispatcher goroutine that serializes asynchronous
// operations, and the logger.
//
// Backends implement their medium-specific work as hooks passed to the
// Run* helpers; Base guarantees the hooks and their completion callbacks
// execute in submission order on the dispatcher goroutine, exactly once
// each, and that the state machine is advanced consistently around them.
type Base struct {
	mgr    *cache.Manager
	logger *slog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	states map[uint32]SeriesState
	closed bool

	done chan struct{}
}

// NewBase creates a Base with the given resident-block budget and starts
// its dispatcher goroutine.
//
// Parameters:
//   - maxBlocks: Budget for the owned cache.Manager
//   - logger: Structured logger; nil selects slog.Default
func NewBase(maxBlocks int, logger *slog.Logger) *Base {
	if logger == nil {
		logger = slog.Default()
	}

	b := &Base{
		mgr:    cache.NewManager(maxBlocks),
		logger: logger,
		states: make(map[uint32]SeriesState),
		done:   make(chan struct{}),
	}
	b.cond = sync.NewCond(&b.mu)

	go b.dispatch()

	return b
}

// Mgr returns the cache manager owned by this store.
func (b *Base) Mgr() *cache.Manager {
	return b.mgr
}

// Logger returns the store's logger.
func (b *Base) Logger() *slog.Logger {
	return b.logger
}

// dispatch drains the operation queue in FIFO order until Shutdown, then
// runs whatever was already queued and exits.
func (b *Base) dispatch() {
	defer close(b.done)

	for {
		b.mu.Lock()
		for len(b.queue) == 0 && !b.closed {
			b.cond.Wait()
		}

		if len(b.queue) == 0 {
			b.mu.Unlock()
			return
		}

		op := b.queue[0]
		b.queue = b.queue[1:]
		b.mu.Unlock()

		op()
	}
}

// enqueue submits op to the dispatcher. It reports false after Shutdown,
// in which case op will never run.
func (b *Base) enqueue(op func()) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}

	b.queue = append(b.queue, op)
	b.cond.Signal()

	return true
}

// State returns the lifecycle state of seriesID.
func (b *Base) State(seriesID uint32) SeriesState {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.states[seriesID]
}

// IsOpen reports whether seriesID is in the open state. Backends gate the
// synchronous block operations on it.
func (b *Base) IsOpen(seriesID uint32) bool {
	return b.State(seriesID) == StateOpen
}

// setState records a transition; StateUnopened entries are dropped so the
// map only holds live series.
func (b *Base) setState(seriesID uint32, s SeriesState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s == StateUnopened {
		delete(b.states, seriesID)
	} else {
		b.states[seriesID] = s
	}
}

// RunOpen drives the Open state machine around the backend hook.
//
// The series must be unopened or closed; otherwise the callback completes
// with a state-violation event and the hook never runs. On hook success
// the series becomes open; on hook failure it returns to unopened so the
// caller may retry.
func (b *Base) RunOpen(seriesID uint32, parent, name string, fn OpenFn, hook func() OpenResult) {
	b.mu.Lock()
	state := b.states[seriesID]
	if state != StateUnopened && state != StateClosed {
		b.mu.Unlock()
		b.complete("open", seriesID, name, func() {
			fn(OpenFail(Errorf("open", seriesID, name, "series in state %s", state)))
		})

		return
	}
	b.states[seriesID] = StateOpening
	b.mu.Unlock()

	ok := b.enqueue(func() {
		res := hook()
		if res.IsOK() {
			b.setState(seriesID, StateOpen)
		} else {
			b.setState(seriesID, StateUnopened)
		}
		fn(res)
	})
	if !ok {
		b.setState(seriesID, StateUnopened)
		b.shutdownEvent("open", seriesID, name)
		fn(OpenFail(Errorf("open", seriesID, name, "store shut down")))
	}
}

// RunClose drives the Close state machine around the backend hook.
//
// The series must be open. On hook success the series becomes closed and
// its seriesID reusable; on failure it stays open.
func (b *Base) RunClose(seriesID uint32, fn CompleteFn, hook func() Result) {
	b.mu.Lock()
	state := b.states[seriesID]
	if state != StateOpen {
		b.mu.Unlock()
		b.complete("close", seriesID, "", func() {
			fn(Fail(Errorf("close", seriesID, "", "series in state %s", state)))
		})

		return
	}
	b.states[seriesID] = StateClosing
	b.mu.Unlock()

	ok := b.enqueue(func() {
		res := hook()
		if res.IsOK() {
			b.setState(seriesID, StateClosed)
		} else {
			b.setState(seriesID, StateOpen)
		}
		fn(res)
	})
	if !ok {
		b.setState(seriesID, StateOpen)
		b.shutdownEvent("close", seriesID, "")
		fn(Fail(Errorf("close", seriesID, "", "store shut down")))
	}
}

// RunDoc queues a document operation; documents have no per-series state.
func (b *Base) RunDoc(op, name string, fn CompleteFn, hook func() Result) {
	if !b.enqueue(func() { fn(hook()) }) {
		b.shutdownEvent(op, 0, name)
		fn(Fail(Errorf(op, 0, name, "store shut down")))
	}
}

// RunSave pins blk and queues the backend hook; the pin is released once
// the hook returns, signalling discharge to the block's owner.
//
// Saves against a series that is not open are discharged immediately and
// logged, matching the fire-and-forget contract: there is no callback to
// fail through.
func (b *Base) RunSave(blk *block.Block, hook func(*block.Block)) {
	if !b.IsOpen(blk.SeriesID()) {
		b.logger.Warn("save dropped: series not open",
			slog.Uint64("series", uint64(blk.SeriesID())),
			slog.Uint64("block", uint64(blk.Index())))

		return
	}

	blk.Pin()
	ok := b.enqueue(func() {
		defer blk.Unpin()
		hook(blk)
	})
	if !ok {
		blk.Unpin()
		b.logger.Warn("save dropped: store shut down",
			slog.Uint64("series", uint64(blk.SeriesID())),
			slog.Uint64("block", uint64(blk.Index())))
	}
}

// complete routes a callback through the dispatcher so it fires on the
// dispatcher goroutine like every other completion; after Shutdown it runs
// inline on the caller's goroutine as a last resort.
func (b *Base) complete(op string, seriesID uint32, name string, invoke func()) {
	if !b.enqueue(invoke) {
		b.shutdownEvent(op, seriesID, name)
		invoke()
	}
}

func (b *Base) shutdownEvent(op string, seriesID uint32, name string) {
	b.logger.Warn("operation after shutdown",
		slog.String("op", op),
		slog.Uint64("series", uint64(seriesID)),
		slog.String("name", name))
}

// Shutdown drains the queue, stops the dispatcher and clears the cache
// manager. Idempotent. Operations submitted afterwards complete with a
// shutdown error event on the caller's goroutine.
func (b *Base) Shutdown() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		<-b.done

		return
	}
	b.closed = true
	b.cond.Broadcast()
	b.mu.Unlock()

	<-b.done
	b.mgr.Reset()
}
