package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/djnz00/strata/dataframe"
	"github.com/djnz00/strata/errs"
	"github.com/djnz00/strata/format"
	"github.com/djnz00/strata/store"
)

func waitFrame(t *testing.T, run func(store.CompleteFn)) store.Result {
	t.Helper()

	ch := make(chan store.Result, 1)
	run(func(res store.Result) { ch <- res })

	select {
	case res := <-ch:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("frame callback never fired")
		return store.Result{}
	}
}

func TestNewEngine_OptionValidation(t *testing.T) {
	st := store.NewMemStore()
	defer st.Shutdown()

	_, err := NewEngine(st, WithBlockSize(1))
	require.ErrorIs(t, err, errs.ErrInvalidBlockCapacity)

	_, err = NewEngine(st, WithEncoding(format.EncodingType(0xEE)))
	require.ErrorIs(t, err, errs.ErrInvalidEncodingType)

	_, err = NewEngine(st, WithCompression(format.CompressionType(0xEE)))
	require.ErrorIs(t, err, errs.ErrInvalidCompressionType)

	_, err = NewEngine(st, WithLogger(nil))
	require.Error(t, err)
}

func TestEngine_SaveLoadFrame(t *testing.T) {
	eng := newMemEngine(t, 8)

	s := openSeries(t, eng, "md", "EURUSD")
	for i := range int64(20) {
		require.NoError(t, s.Append(i))
	}
	require.NoError(t, s.Flush())

	require.True(t, waitFrame(t, eng.SaveFrame).IsOK())
	closeSeries(t, s)

	// A fresh engine over the same store restores the catalog.
	other, err := NewEngine(eng.Store())
	require.NoError(t, err)

	res := waitFrame(t, func(fn store.CompleteFn) {
		other.LoadFrame(dataframe.DefaultMaxSize, fn)
	})
	require.True(t, res.IsOK())

	def, ok := other.Frame().Lookup("md", "EURUSD")
	require.True(t, ok)
	require.Equal(t, uint64(20), def.Count)
	require.Equal(t, uint32(1), def.BlockOffset)
}

func TestEngine_LoadFrame_NotFound(t *testing.T) {
	eng := newMemEngine(t, 8)

	res := waitFrame(t, func(fn store.CompleteFn) {
		eng.LoadFrame(dataframe.DefaultMaxSize, fn)
	})
	require.True(t, res.IsNotFound(), "no catalog saved yet is no-data, not an error")
	require.Equal(t, 0, eng.Frame().Len(), "catalog unchanged on not-found")
}

func TestEngine_LoadFrame_MockIsStructuredError(t *testing.T) {
	st := store.NewMockStore(nil)
	eng, err := NewEngine(st)
	require.NoError(t, err)
	t.Cleanup(eng.Shutdown)

	res := waitFrame(t, func(fn store.CompleteFn) {
		eng.LoadFrame(dataframe.DefaultMaxSize, fn)
	})
	require.True(t, res.IsError(), "mock cannot do documents and must say so")
}
