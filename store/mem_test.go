package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/djnz00/strata/block"
	"github.com/djnz00/strata/section"
)

// barrier flushes the dispatcher queue by running a document op behind the
// operations under test.
func barrier(t *testing.T, st Store) {
	t.Helper()
	waitComplete(t, func(fn CompleteFn) {
		st.SaveDF("__barrier", &byteDoc{}, fn)
	})
}

func TestMemStore_SaveLoadRoundTrip(t *testing.T) {
	st := NewMemStore()
	defer st.Shutdown()

	require.True(t, waitOpen(t, st, 1, "md", "EURUSD").IsOK())

	want := []int64{100, 105, 103, 110, 108}
	blk := sealedBlock(t, 1, 0, want...)
	st.Save(blk)
	barrier(t, st)
	require.False(t, blk.Pinned(), "save must discharge the pin")

	var hdr section.BlockHeader
	require.True(t, st.LoadHdr(1, 0, &hdr))
	require.Equal(t, uint32(0), hdr.Index)
	require.Equal(t, uint32(len(want)), hdr.Count)

	var loaded block.Block
	require.True(t, st.Load(1, 0, &loaded))

	got, err := loaded.Decode(nil)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestMemStore_LoadMisses(t *testing.T) {
	st := NewMemStore()
	defer st.Shutdown()

	var hdr section.BlockHeader
	var blk block.Block

	// Unopened series.
	require.False(t, st.LoadHdr(1, 0, &hdr))
	require.False(t, st.Load(1, 0, &blk))

	// Open but nothing persisted at that index.
	require.True(t, waitOpen(t, st, 1, "md", "EURUSD").IsOK())
	require.False(t, st.Load(1, 7, &blk))
}

func TestMemStore_ReopenResumesOffset(t *testing.T) {
	st := NewMemStore()
	defer st.Shutdown()

	require.Equal(t, uint32(0), waitOpen(t, st, 1, "md", "EURUSD").BlockOffset)

	st.Save(sealedBlock(t, 1, 0, 1, 2))
	st.Save(sealedBlock(t, 1, 1, 3, 4))
	st.Save(sealedBlock(t, 1, 2, 5, 6))
	barrier(t, st)

	require.True(t, waitComplete(t, func(fn CompleteFn) { st.Close(1, fn) }).IsOK())

	// The path resumes after the last persisted block, under a recycled
	// or a fresh seriesID alike.
	res := waitOpen(t, st, 9, "md", "EURUSD")
	require.True(t, res.IsOK())
	require.Equal(t, uint32(3), res.BlockOffset)

	var loaded block.Block
	require.True(t, st.Load(9, 1, &loaded))
	got, err := loaded.Decode(nil)
	require.NoError(t, err)
	require.Equal(t, []int64{3, 4}, got)
}

func TestMemStore_DoublePathOpenFails(t *testing.T) {
	st := NewMemStore()
	defer st.Shutdown()

	require.True(t, waitOpen(t, st, 1, "md", "EURUSD").IsOK())

	res := waitOpen(t, st, 2, "md", "EURUSD")
	require.True(t, res.IsError())
	require.Contains(t, res.Event.Msg, "already open")

	// The losing seriesID is reusable for a different path.
	require.True(t, waitOpen(t, st, 2, "md", "GBPUSD").IsOK())
}

func TestMemStore_DocumentRoundTrip(t *testing.T) {
	st := NewMemStore()
	defer st.Shutdown()

	res := waitComplete(t, func(fn CompleteFn) {
		st.SaveDF("catalog", &byteDoc{data: []byte(`{"version":1}`)}, fn)
	})
	require.True(t, res.IsOK())

	var doc byteDoc
	res = waitComplete(t, func(fn CompleteFn) {
		st.LoadDF("catalog", &doc, 1<<20, fn)
	})
	require.True(t, res.IsOK())
	require.Equal(t, []byte(`{"version":1}`), doc.data)
}

func TestMemStore_DocumentNotFoundVsError(t *testing.T) {
	st := NewMemStore()
	defer st.Shutdown()

	var doc byteDoc
	res := waitComplete(t, func(fn CompleteFn) {
		st.LoadDF("absent", &doc, 1<<20, fn)
	})
	require.True(t, res.IsNotFound(), "absent document is no-data, not an error")

	// Oversized document is an error, and the loader sees no bytes.
	big := make([]byte, 256)
	require.True(t, waitComplete(t, func(fn CompleteFn) {
		st.SaveDF("big", &byteDoc{data: big}, fn)
	}).IsOK())

	res = waitComplete(t, func(fn CompleteFn) {
		st.LoadDF("big", &doc, 16, fn)
	})
	require.True(t, res.IsError())
	require.Contains(t, res.Event.Msg, "limit")
}
