package series

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/djnz00/strata/errs"
	"github.com/djnz00/strata/format"
	"github.com/djnz00/strata/store"
)

func newMemEngine(t *testing.T, maxBlocks int, opts ...Option) *Engine {
	t.Helper()

	st := store.NewMemStoreSize(maxBlocks, nil)
	eng, err := NewEngine(st, opts...)
	require.NoError(t, err)
	t.Cleanup(eng.Shutdown)

	return eng
}

func openSeries(t *testing.T, eng *Engine, parent, name string) *Series {
	t.Helper()

	type outcome struct {
		s   *Series
		res store.Result
	}

	ch := make(chan outcome, 1)
	err := eng.OpenSeries(parent, name, func(s *Series, res store.Result) {
		ch <- outcome{s: s, res: res}
	})
	require.NoError(t, err)

	select {
	case out := <-ch:
		require.True(t, out.res.IsOK(), "open failed: %v", out.res.Err())
		require.NotNil(t, out.s)
		return out.s
	case <-time.After(2 * time.Second):
		t.Fatal("open callback never fired")
		return nil
	}
}

func closeSeries(t *testing.T, s *Series) {
	t.Helper()

	ch := make(chan store.Result, 1)
	require.NoError(t, s.Close(func(res store.Result) { ch <- res }))

	select {
	case res := <-ch:
		require.True(t, res.IsOK(), "close failed: %v", res.Err())
	case <-time.After(2 * time.Second):
		t.Fatal("close callback never fired")
	}
}

func TestEngine_OpenSeries_Validation(t *testing.T) {
	eng := newMemEngine(t, 16)

	err := eng.OpenSeries("md", "", func(*Series, store.Result) {
		t.Fatal("callback must not fire on validation error")
	})
	require.ErrorIs(t, err, errs.ErrInvalidSeriesName)
}

func TestSeries_AppendAndReadBack(t *testing.T) {
	eng := newMemEngine(t, 16, WithBlockSize(64), WithEncoding(format.TypeDeltaDelta))
	s := openSeries(t, eng, "md", "EURUSD")

	want := make([]int64, 500)
	base := int64(1_700_000_000_000_000)
	for i := range want {
		want[i] = base + int64(i)*1000
		require.NoError(t, s.Append(want[i]))
	}

	require.Greater(t, s.NextIndex(), uint32(1), "64-byte blocks must have rolled over")
	require.Equal(t, uint64(500), s.Count())

	// Evicted blocks are only loadable once their queued saves land.
	require.NoError(t, eng.Sync(t.Context()))

	var got []int64
	for v := range s.All() {
		got = append(got, v)
	}
	require.Equal(t, want, got)
}

func TestSeries_ReadBackAfterEviction(t *testing.T) {
	// A 2-block cache forces most sealed blocks out; reads must fall back
	// to the store's synchronous load path.
	eng := newMemEngine(t, 2, WithBlockSize(32))
	s := openSeries(t, eng, "md", "EURUSD")

	want := make([]int64, 300)
	for i := range want {
		want[i] = int64(i) * 7
		require.NoError(t, s.Append(want[i]))
	}

	require.NoError(t, eng.Sync(t.Context()))

	var got []int64
	for v := range s.All() {
		got = append(got, v)
	}
	require.Equal(t, want, got)
}

func TestSeries_FlushMakesPartialBlockLoadable(t *testing.T) {
	eng := newMemEngine(t, 8)
	s := openSeries(t, eng, "md", "EURUSD")

	for i := range int64(10) {
		require.NoError(t, s.Append(i))
	}
	require.Equal(t, uint32(0), s.NextIndex(), "nothing sealed yet")

	require.NoError(t, s.Flush())
	require.Equal(t, uint32(1), s.NextIndex())

	// Flushing an empty builder is a no-op.
	require.NoError(t, s.Flush())
	require.Equal(t, uint32(1), s.NextIndex())
}

func TestSeries_CloseAndResume(t *testing.T) {
	eng := newMemEngine(t, 8, WithBlockSize(64))
	s := openSeries(t, eng, "md", "EURUSD")

	for i := range int64(100) {
		require.NoError(t, s.Append(i))
	}
	next := s.NextIndex()
	closeSeries(t, s)

	require.ErrorIs(t, s.Append(1), errs.ErrSeriesClosed)
	require.ErrorIs(t, s.Close(func(store.Result) {}), errs.ErrSeriesClosed)

	// Reopening the same path resumes where the close left off, with the
	// catalog count restored.
	resumed := openSeries(t, eng, "md", "EURUSD")
	require.GreaterOrEqual(t, resumed.NextIndex(), next)
	require.Equal(t, uint64(100), resumed.Count())

	require.NoError(t, resumed.Append(500))
	closeSeries(t, resumed)
}

func TestSeries_StatsAggregator(t *testing.T) {
	eng := newMemEngine(t, 8, WithStats(true))
	s := openSeries(t, eng, "md", "EURUSD")

	for _, v := range []int64{5, 1, 9, 3, 7} {
		require.NoError(t, s.Append(v))
	}

	agg := s.Stats()
	require.NotNil(t, agg)
	require.Equal(t, uint64(5), agg.Count())
	require.Equal(t, 1.0, agg.Minimum())
	require.Equal(t, 9.0, agg.Maximum())
	require.Equal(t, 5.0, agg.Median())
}

func TestSeries_StatsDisabledByDefault(t *testing.T) {
	eng := newMemEngine(t, 8)
	s := openSeries(t, eng, "md", "EURUSD")
	require.Nil(t, s.Stats())
}

func TestSeries_TwoSeriesShareCacheBudget(t *testing.T) {
	eng := newMemEngine(t, 4, WithBlockSize(32))

	a := openSeries(t, eng, "md", "EURUSD")
	b := openSeries(t, eng, "md", "GBPUSD")

	for i := range int64(200) {
		require.NoError(t, a.Append(i))
		require.NoError(t, b.Append(i*3))
	}

	require.LessOrEqual(t, eng.Store().Mgr().Len(), 4, "global budget holds across series")

	require.NoError(t, eng.Sync(t.Context()))

	var gotA, gotB []int64
	for v := range a.All() {
		gotA = append(gotA, v)
	}
	for v := range b.All() {
		gotB = append(gotB, v)
	}
	require.Len(t, gotA, 200)
	require.Len(t, gotB, 200)
	require.Equal(t, int64(199), gotA[199])
	require.Equal(t, int64(597), gotB[199])
}

func TestSeries_MockBackendLosesEvictedBlocks(t *testing.T) {
	// The mock persists nothing: evicted blocks are gone, and All skips
	// them instead of failing. This is the accepted data-loss window of
	// an unload callback that has nothing durable to point at.
	st := store.NewMockStore(nil)
	eng, err := NewEngine(st, WithBlockSize(32))
	require.NoError(t, err)
	t.Cleanup(eng.Shutdown)

	s := openSeries(t, eng, "md", "EURUSD")
	for i := range int64(5000) {
		require.NoError(t, s.Append(i))
	}

	var got []int64
	for v := range s.All() {
		got = append(got, v)
	}
	require.NotEmpty(t, got)
	require.Less(t, len(got), 5000, "evicted blocks are unrecoverable on the mock")

	// Whatever survives ends with the still-pending values.
	require.Equal(t, int64(4999), got[len(got)-1])
}

func TestEngine_Sync_WaitsForDischarge(t *testing.T) {
	eng := newMemEngine(t, 8)
	s := openSeries(t, eng, "md", "EURUSD")

	for i := range int64(50) {
		require.NoError(t, s.Append(i))
	}

	require.NoError(t, eng.Sync(t.Context()))
	require.NotNil(t, s.lastSaved)
	require.False(t, s.lastSaved.Pinned())
}

func TestEngine_Sync_ContextCancel(t *testing.T) {
	eng := newMemEngine(t, 8)
	s := openSeries(t, eng, "md", "EURUSD")
	require.NoError(t, s.Append(1))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	// With nothing in flight Sync may still succeed; it must never hang.
	_ = eng.Sync(ctx)
}

func TestEngine_OpenAfterShutdown(t *testing.T) {
	eng := newMemEngine(t, 8)
	eng.Shutdown()

	err := eng.OpenSeries("md", "EURUSD", func(*Series, store.Result) {})
	require.ErrorIs(t, err, errs.ErrEngineShutdown)
}
