// Package series implements the append layer of the storage engine: named,
// append-only series of fixed-capacity blocks, fed value by value and
// persisted block by block through a store.
//
// An Engine owns one store.Store (and through it the cache.Manager bounding
// resident blocks) plus the dataframe catalog describing its series. Values
// appended to a Series accumulate in an in-memory block builder; when a
// block fills it is sealed, handed to the store's asynchronous Save, and
// inserted into the cache, where global LRU pressure may evict another
// block and fire its owning series' unload callback. Reads walk resident
// blocks out of the cache and fall back to the store's synchronous load
// path on a miss.
//
// # Threading
//
// An Engine and its Series are driven from one logical goroutine, the
// engine owner. Store completion callbacks fire on the store's dispatcher
// goroutine; a Series handed to an OpenSeries callback must reach the
// owner goroutine through a synchronization point (typically the channel
// the caller signals completion on) before use.
package series
