// Package cache implements the buffer manager: a bounded, global
// least-recently-used cache of resident blocks shared by every series of one
// storage engine instance.
//
// The manager tracks which blocks are resident and decides which block to
// drop when the resident count exceeds the configured budget. It does not
// own block memory: each tracking entry is a non-owning reference, and the
// registered series keeps the authoritative one. When the manager selects a
// block for eviction it synchronously invokes the owning series' unload
// callback, giving the owner its one chance to ensure durability before the
// tracking entry disappears.
//
// Eviction fairness is purely global recency. There is no per-series quota
// or priority: a hot series may push every block of a cold series out of
// the cache.
//
// # Usage
//
//	mgr := cache.NewManager(1024)
//	id := mgr.Alloc(func(b *block.Block) {
//	    // ensure b is durable, or accept the loss
//	})
//
//	mgr.Add(blk)                 // insert at MRU, may evict the global LRU
//	b, ok := mgr.Lookup(id, 7)   // resident probe, promotes on hit
//	mgr.Purge(id, 100)           // drop blocks with Index < 100, no callbacks
//	mgr.Free(id)                 // drop all of the series' blocks, no callbacks
//	mgr.Release(id)              // unregister, id becomes reusable
//
// A Manager is not safe for concurrent use; it is designed to be driven
// from a single logical goroutine, with callers responsible for external
// serialization.
package cache
