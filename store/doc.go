// Package store defines the persistence boundary of the storage engine:
// the pluggable contract every durable backend implements, the structured
// result types flowing back through its asynchronous operations, and two
// in-memory backends (a full-contract reference and a deliberately inert
// mock).
//
// # Two result idioms
//
// The contract deliberately mixes two error idioms, one per layer:
//
//   - The synchronous hot path, Load and LoadHdr, answers with a plain
//     bool. There is no distinct "error" from "not present" here; an
//     underlying I/O fault reads as a miss and the caller falls back the
//     same way.
//
//   - The asynchronous document and series operations, Open, Close, LoadDF
//     and SaveDF, complete with a tagged Result: success (possibly with a
//     typed payload), not-found, or a structured Event carrying a
//     diagnostic. Nothing panics across this boundary. A backend that does
//     not implement an operation must fail it with an Event, never succeed
//     silently with empty data, so callers can tell "no data yet" from
//     "this backend cannot do that".
//
// # Execution model
//
// Each store owns one dispatcher goroutine. Asynchronous operations are
// queued in submission order and their completion callbacks fire exactly
// once, on the dispatcher goroutine; they are not cancellable and no
// timeout is enforced at this layer. The synchronous loads run entirely on
// the caller's goroutine and may block for the duration of the backend's
// I/O, a documented trade-off of the hot path.
//
// A Store also owns the engine instance's cache.Manager, unifying
// residency policy and persistence in one object; see Base.
//
// # Plugging in a backend
//
// A backend embeds *Base for the dispatcher, the per-series state machine
// and the cache manager, implements the remaining Store methods, and
// registers a Factory under a name:
//
//	func init() {
//	    store.Register("mem", func() store.Store { return store.NewMemStore() })
//	}
//
//	st, err := store.New("mem")
package store
