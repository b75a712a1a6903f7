package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/djnz00/strata/errs"
	"github.com/djnz00/strata/format"
)

func TestNewBlockFlag(t *testing.T) {
	flag := NewBlockFlag()

	require.Equal(t, uint16(MagicBlockV1Opt), flag.GetMagicNumber())
	require.True(t, flag.IsValidMagicNumber())
	require.True(t, flag.IsLittleEndian())
	require.False(t, flag.IsBigEndian())
	require.Equal(t, format.TypeDeltaDelta, flag.Encoding())
	require.Equal(t, format.CompressionZstd, flag.Compression())
	require.NoError(t, flag.Validate())
}

func TestBlockFlag_Endianness(t *testing.T) {
	flag := NewBlockFlag()

	flag.WithBigEndian()
	require.True(t, flag.IsBigEndian())
	require.False(t, flag.IsLittleEndian())

	flag.WithLittleEndian()
	require.True(t, flag.IsLittleEndian())
	require.False(t, flag.IsBigEndian())

	// Toggling endianness must not disturb the magic number.
	require.True(t, flag.IsValidMagicNumber())
}

func TestBlockFlag_EncodingAccessors(t *testing.T) {
	flag := NewBlockFlag()

	for _, enc := range []format.EncodingType{
		format.TypePlain,
		format.TypeDelta,
		format.TypeDeltaDelta,
	} {
		flag.SetEncoding(enc)
		require.Equal(t, enc, flag.Encoding())
		require.True(t, flag.IsValidEncoding())
	}

	flag.SetEncoding(format.EncodingType(0xEE))
	require.False(t, flag.IsValidEncoding())
}

func TestBlockFlag_CompressionAccessors(t *testing.T) {
	flag := NewBlockFlag()

	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		flag.SetCompression(ct)
		require.Equal(t, ct, flag.Compression())
		require.True(t, flag.IsValidCompression())
	}

	flag.SetCompression(format.CompressionType(0xEE))
	require.False(t, flag.IsValidCompression())
}

func TestBlockFlag_Validate(t *testing.T) {
	t.Run("Bad magic", func(t *testing.T) {
		flag := NewBlockFlag()
		flag.Options = 0x1230

		require.ErrorIs(t, flag.Validate(), errs.ErrInvalidHeaderFlags)
	})

	t.Run("Bad encoding", func(t *testing.T) {
		flag := NewBlockFlag()
		flag.EncodingType = 0xEE

		require.ErrorIs(t, flag.Validate(), errs.ErrInvalidHeaderFlags)
	})

	t.Run("Bad compression", func(t *testing.T) {
		flag := NewBlockFlag()
		flag.CompressionType = 0xEE

		require.ErrorIs(t, flag.Validate(), errs.ErrInvalidHeaderFlags)
	})
}
