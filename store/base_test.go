package store

import (
	"io"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// byteDoc is a trivial DocBuilder/DocLoader over a byte slice.
type byteDoc struct {
	data []byte
}

func (d *byteDoc) WriteDocument(w io.Writer) (err error) {
	_, err = w.Write(d.data)
	return err
}

func (d *byteDoc) ReadDocument(r io.Reader) (err error) {
	d.data, err = io.ReadAll(r)
	return err
}

func TestBase_StateMachine(t *testing.T) {
	st := NewMockStore(nil)
	defer st.Shutdown()

	require.Equal(t, StateUnopened, st.State(1))

	require.True(t, waitOpen(t, st, 1, "p", "n").IsOK())
	require.Equal(t, StateOpen, st.State(1))
	require.True(t, st.IsOpen(1))

	// Opening an already-open series is a caller error reported through
	// the callback; the hook must not run.
	res := waitOpen(t, st, 1, "p", "n")
	require.True(t, res.IsError())
	require.Contains(t, res.Event.Msg, "Open")
	require.Equal(t, StateOpen, st.State(1), "failed reopen leaves state intact")

	require.True(t, waitComplete(t, func(fn CompleteFn) { st.Close(1, fn) }).IsOK())
	require.Equal(t, StateClosed, st.State(1))
	require.False(t, st.IsOpen(1))

	// Closing a closed series is likewise an error.
	res2 := waitComplete(t, func(fn CompleteFn) { st.Close(1, fn) })
	require.True(t, res2.IsError())
}

func TestBase_CallbacksFireExactlyOnceInOrder(t *testing.T) {
	st := NewMockStore(nil)
	defer st.Shutdown()

	var fired atomic.Int32
	order := make(chan int, 3)

	st.Open(1, "p", "a", func(OpenResult) {
		fired.Add(1)
		order <- 1
	})
	st.Open(2, "p", "b", func(OpenResult) {
		fired.Add(1)
		order <- 2
	})
	done := make(chan struct{})
	st.Open(3, "p", "c", func(OpenResult) {
		fired.Add(1)
		order <- 3
		close(done)
	})

	<-done
	require.Equal(t, int32(3), fired.Load())
	require.Equal(t, 1, <-order)
	require.Equal(t, 2, <-order)
	require.Equal(t, 3, <-order)
}

func TestBase_ShutdownDrainsQueue(t *testing.T) {
	st := NewMockStore(nil)

	const n = 16
	var fired atomic.Int32
	for i := range uint32(n) {
		st.Open(i, "p", "x", func(OpenResult) { fired.Add(1) })
	}

	// Shutdown must run everything already queued before stopping.
	st.Shutdown()
	require.Equal(t, int32(n), fired.Load())
}

func TestBase_OperationsAfterShutdown(t *testing.T) {
	st := NewMockStore(nil)
	st.Shutdown()

	var res OpenResult
	st.Open(1, "p", "n", func(r OpenResult) { res = r })
	require.True(t, res.IsError(), "post-shutdown open completes inline with an error")

	var cres Result
	st.Close(1, func(r Result) { cres = r })
	require.True(t, cres.IsError())

	blk := sealedBlock(t, 1, 0, 1)
	st.Save(blk) // must not hang or leave the block pinned
	require.False(t, blk.Pinned())
}

func TestBase_ShutdownIdempotent(t *testing.T) {
	st := NewMockStore(nil)
	st.Shutdown()
	st.Shutdown()
}
