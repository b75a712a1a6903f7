// Package strata is an embedded, block-oriented time-series storage core.
//
// Named series are appended value by value; values accumulate into
// fixed-capacity blocks, full blocks are compressed and handed to a
// pluggable backend for persistence, and a bounded LRU cache decides which
// blocks stay resident. Running order statistics (percentiles, mean,
// median, stddev) can be maintained over every ingested value without
// re-scanning history.
//
// # Basic Usage
//
// Appending and reading back a series over the in-memory backend:
//
//	import "github.com/djnz00/strata"
//
//	eng, _ := strata.New(strata.NewMemStore())
//	defer eng.Shutdown()
//
//	done := make(chan *series.Series, 1)
//	_ = eng.OpenSeries("md", "EURUSD", func(s *series.Series, res store.Result) {
//	    if res.IsOK() {
//	        done <- s
//	    }
//	})
//	s := <-done
//
//	for i, px := range prices {
//	    _ = s.Append(px) // scaled fixed-point int64
//	    _ = i
//	}
//	_ = eng.Sync(ctx) // wait until every sealed block is discharged
//
//	for v := range s.All() {
//	    fmt.Println(v)
//	}
//
// Running statistics without storage:
//
//	agg := strata.NewAggregator()
//	agg.Add(42.1)
//	agg.Add(42.3)
//	fmt.Println(agg.Median(), agg.Rank(0.99))
//
// # Package Structure
//
// This package provides thin wrappers around the topical packages for the
// common cases. For fine-grained control use them directly:
//
//   - series: the append engine and per-series operations
//   - store: the backend contract, result types and in-memory backends
//   - cache: the LRU buffer manager
//   - block, section: block building and the persisted layout
//   - encoding: the bounded varint codec with composable delta wrapping
//   - compress: block payload compression (Zstd, S2, LZ4)
//   - stats: exact order statistics and mergeable running summaries
//   - dataframe: the catalog document describing a store's series
package strata

import (
	"log/slog"

	"github.com/djnz00/strata/dataframe"
	"github.com/djnz00/strata/series"
	"github.com/djnz00/strata/stats"
	"github.com/djnz00/strata/store"
)

// New creates a storage engine over the given backend.
//
// The defaults favor slowly varying integer sequences: delta-of-delta
// encoding, Zstd compression, 8KiB blocks. See the series package options
// to override.
func New(st store.Store, opts ...series.Option) (*series.Engine, error) {
	return series.NewEngine(st, opts...) //nolint:wrapcheck
}

// NewMemStore creates the full-contract in-memory backend with the
// default cache budget.
func NewMemStore() store.Store {
	return store.NewMemStore()
}

// NewMemStoreSize creates the in-memory backend with an explicit
// resident-block budget and logger (nil selects slog.Default).
func NewMemStoreSize(maxBlocks int, logger *slog.Logger) store.Store {
	return store.NewMemStoreSize(maxBlocks, logger)
}

// NewMockStore creates the inert mock backend: nothing is persisted,
// loads always miss, and document operations fail with a structured
// event.
func NewMockStore() store.Store {
	return store.NewMockStore(nil)
}

// OpenStore constructs a backend registered under name, the plugin entry
// point for backends outside this module.
func OpenStore(name string) (store.Store, error) {
	return store.New(name) //nolint:wrapcheck
}

// NewAggregator creates an empty order-statistics aggregator.
func NewAggregator() *stats.Aggregator {
	return stats.NewAggregator()
}

// NewFrame creates an empty data-frame catalog document.
func NewFrame() *dataframe.Frame {
	return dataframe.New()
}

// PathID returns the stable 64-bit key of a (parent, name) series path.
func PathID(parent, name string) uint64 {
	return dataframe.PathID(parent, name)
}
