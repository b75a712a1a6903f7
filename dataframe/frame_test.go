package dataframe

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/djnz00/strata/errs"
)

func TestFrame_UpsertLookup(t *testing.T) {
	frame := New()

	frame.Upsert(SeriesDef{Parent: "md", Name: "EURUSD", BlockOffset: 3, Count: 300})
	frame.Upsert(SeriesDef{Parent: "md", Name: "GBPUSD"})
	require.Equal(t, 2, frame.Len())

	def, ok := frame.Lookup("md", "EURUSD")
	require.True(t, ok)
	require.Equal(t, uint32(3), def.BlockOffset)
	require.Equal(t, PathID("md", "EURUSD"), def.PathID)

	// Upsert replaces in place.
	frame.Upsert(SeriesDef{Parent: "md", Name: "EURUSD", BlockOffset: 7, Count: 700})
	require.Equal(t, 2, frame.Len())

	def, ok = frame.Lookup("md", "EURUSD")
	require.True(t, ok)
	require.Equal(t, uint32(7), def.BlockOffset)

	_, ok = frame.Lookup("md", "USDJPY")
	require.False(t, ok)
}

func TestFrame_PathBoundary(t *testing.T) {
	// The path hash must see the component boundary.
	require.NotEqual(t, PathID("a", "bc"), PathID("ab", "c"))
}

func TestFrame_Remove(t *testing.T) {
	frame := New()
	frame.Upsert(SeriesDef{Parent: "md", Name: "a"})
	frame.Upsert(SeriesDef{Parent: "md", Name: "b"})
	frame.Upsert(SeriesDef{Parent: "md", Name: "c"})

	require.True(t, frame.Remove("md", "b"))
	require.False(t, frame.Remove("md", "b"))
	require.Equal(t, 2, frame.Len())

	// Index stays consistent after the swap-down.
	def, ok := frame.Lookup("md", "c")
	require.True(t, ok)
	require.Equal(t, "c", def.Name)
}

func TestFrame_DocumentRoundTrip(t *testing.T) {
	frame := New()
	frame.Upsert(SeriesDef{Parent: "md", Name: "EURUSD", BlockOffset: 12, Count: 1200})
	frame.Upsert(SeriesDef{Parent: "trades", Name: "GBPUSD", BlockOffset: 4, Count: 37})

	var buf bytes.Buffer
	require.NoError(t, frame.WriteDocument(&buf))

	loaded := New()
	require.NoError(t, loaded.ReadDocument(&buf))
	require.Equal(t, frame.Version, loaded.Version)
	require.Equal(t, frame.Series, loaded.Series)

	def, ok := loaded.Lookup("trades", "GBPUSD")
	require.True(t, ok)
	require.Equal(t, uint32(4), def.BlockOffset)
}

func TestFrame_ReadDocument_VersionCheck(t *testing.T) {
	frame := New()
	err := frame.ReadDocument(strings.NewReader(`{"version":99,"series":[]}`))
	require.ErrorIs(t, err, errs.ErrInvalidFrameVersion)
}

func TestFrame_ReadDocument_Malformed(t *testing.T) {
	frame := New()
	frame.Upsert(SeriesDef{Parent: "md", Name: "kept"})

	err := frame.ReadDocument(strings.NewReader(`{"version":`))
	require.Error(t, err)

	// The frame is unchanged on error.
	_, ok := frame.Lookup("md", "kept")
	require.True(t, ok)
}
