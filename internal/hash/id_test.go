package hash

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
		{"long string", "this is a longer test string to hash", 0x69275f7f7ee59dbd},
		{"another string", "another test string", 0x212a22f593810bec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, ID(tt.data))
		})
	}
}

func TestPathID_Deterministic(t *testing.T) {
	id := PathID("markets/fx", "EURUSD")
	require.Equal(t, id, PathID("markets/fx", "EURUSD"))
	require.NotZero(t, id)
}

func TestPathID_BoundaryMatters(t *testing.T) {
	// The split point between parent and name must affect the digest.
	require.NotEqual(t, PathID("a", "bc"), PathID("ab", "c"))
	require.NotEqual(t, PathID("", "abc"), PathID("abc", ""))

	// And a path ID is not the plain hash of the concatenation.
	require.NotEqual(t, ID("abc"), PathID("a", "bc"))
}

func randString(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, n)
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range b {
		// random index
		b[i] = letters[seededRand.Intn(len(letters))]
	}

	return string(b)
}

func BenchmarkID(b *testing.B) {
	randStr := randString(20)
	b.ResetTimer()
	for b.Loop() {
		ID(randStr)
	}
}

func BenchmarkPathID(b *testing.B) {
	parent := randString(24)
	name := randString(12)
	b.ResetTimer()
	for b.Loop() {
		PathID(parent, name)
	}
}
