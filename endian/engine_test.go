package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	result := CheckEndianness()

	// Verify the result matches the actual system endianness.
	var probe uint16 = 0x0102
	probeBytes := (*[2]byte)(unsafe.Pointer(&probe))

	switch probeBytes[0] {
	case 0x01:
		require.Equal(t, binary.BigEndian, result)
	case 0x02:
		require.Equal(t, binary.LittleEndian, result)
	default:
		require.Failf(t, "unexpected byte value", "got: %v", probeBytes[0])
	}

	// Must be stable across calls.
	for range 10 {
		require.Equal(t, result, CheckEndianness())
	}
}

func TestIsNativeEndian_Inverse(t *testing.T) {
	little := IsNativeLittleEndian()
	big := IsNativeBigEndian()

	require.NotEqual(t, little, big)
	require.True(t, little || big)
	require.Equal(t, little, CheckEndianness() == binary.LittleEndian)
}

func TestCompareNativeEndian(t *testing.T) {
	if IsNativeLittleEndian() {
		require.True(t, CompareNativeEndian(GetLittleEndianEngine()))
		require.False(t, CompareNativeEndian(GetBigEndianEngine()))
	} else {
		require.False(t, CompareNativeEndian(GetLittleEndianEngine()))
		require.True(t, CompareNativeEndian(GetBigEndianEngine()))
	}
}

func TestEndianEngines_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		engine EndianEngine
		first  byte // expected first byte of 0x0102
	}{
		{"LittleEndian", GetLittleEndianEngine(), 0x02},
		{"BigEndian", GetBigEndianEngine(), 0x01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Implements(t, (*EndianEngine)(nil), tt.engine)

			buf := make([]byte, 2)
			tt.engine.PutUint16(buf, 0x0102)
			require.Equal(t, tt.first, buf[0])
			require.Equal(t, uint16(0x0102), tt.engine.Uint16(buf))

			buf32 := tt.engine.AppendUint32(nil, 0x01020304)
			require.Len(t, buf32, 4)
			require.Equal(t, uint32(0x01020304), tt.engine.Uint32(buf32))

			buf64 := tt.engine.AppendUint64(nil, 0x0102030405060708)
			require.Len(t, buf64, 8)
			require.Equal(t, uint64(0x0102030405060708), tt.engine.Uint64(buf64))
		})
	}
}
