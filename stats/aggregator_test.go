package stats

import (
	"math"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_Empty(t *testing.T) {
	agg := NewAggregator()

	require.Equal(t, uint64(0), agg.Count())
	require.True(t, math.IsNaN(agg.Minimum()))
	require.True(t, math.IsNaN(agg.Maximum()))
	require.True(t, math.IsNaN(agg.Mean()))
	require.True(t, math.IsNaN(agg.Std()))
	require.True(t, math.IsNaN(agg.Median()))
	require.True(t, math.IsNaN(agg.Rank(0.5)))

	_, ok := agg.Order(0)
	require.False(t, ok)
}

func TestAggregator_AddDelScenario(t *testing.T) {
	agg := NewAggregator()

	agg.Add(42)
	agg.Add(42.1)
	agg.Add(42)
	agg.Add(42.2)
	agg.Add(42)
	agg.Add(42.3)

	require.Equal(t, uint64(6), agg.Count())
	require.Equal(t, 42.0, agg.Minimum())
	require.Equal(t, 42.3, agg.Maximum())

	// Remove all occurrences of 42; the fourth delete and the delete of a
	// value never added must be detectable no-ops.
	require.True(t, agg.Del(42))
	require.True(t, agg.Del(42))
	require.True(t, agg.Del(42))
	require.False(t, agg.Del(42))
	require.False(t, agg.Del(42.4))

	require.Equal(t, uint64(3), agg.Count())
	require.Equal(t, 42.1, agg.Minimum())
	require.Equal(t, 42.3, agg.Maximum())
	require.InDelta(t, 42.2, agg.Mean(), 1e-9)

	// 42 is absent from value-ordered iteration.
	var values []float64
	for v, mult := range agg.All() {
		require.Equal(t, uint64(1), mult)
		values = append(values, v)
	}
	require.Equal(t, []float64{42.1, 42.2, 42.3}, values)
}

func TestAggregator_Del_EmptiedIsExactlyEmpty(t *testing.T) {
	agg := NewAggregator()

	agg.Add(0.1)
	agg.Add(0.2)
	require.True(t, agg.Del(0.2))
	require.True(t, agg.Del(0.1))

	require.Equal(t, uint64(0), agg.Count())
	require.Zero(t, agg.sum)
	require.Zero(t, agg.sumSq)
}

func TestAggregator_Multiplicity(t *testing.T) {
	agg := NewAggregator()

	for range 4 {
		agg.Add(7)
	}
	agg.Add(9)

	s, ok := agg.Order(3)
	require.True(t, ok)
	require.Equal(t, 7.0, s.Value)
	require.Equal(t, uint64(4), s.Multiplicity)

	s, ok = agg.Order(4)
	require.True(t, ok)
	require.Equal(t, 9.0, s.Value)

	_, ok = agg.Order(5)
	require.False(t, ok)
}

func TestAggregator_MeanStd(t *testing.T) {
	agg := NewAggregator()
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		agg.Add(v)
	}

	require.InDelta(t, 5.0, agg.Mean(), 1e-9)
	require.InDelta(t, 2.0, agg.Std(), 1e-9, "population standard deviation")
}

func TestAggregator_RankMonotonicity(t *testing.T) {
	agg := NewAggregator()
	rng := rand.New(rand.NewPCG(7, 11))

	for range 500 {
		agg.Add(math.Floor(rng.Float64()*1000) / 10)
	}

	require.Equal(t, agg.Minimum(), agg.Rank(0.0))
	require.Equal(t, agg.Maximum(), agg.Rank(1.0))

	prev := math.Inf(-1)
	for p := 0.0; p <= 1.0; p += 0.01 {
		r := agg.Rank(p)
		require.GreaterOrEqual(t, r, prev, "rank must be monotone in p")
		prev = r
	}
}

func TestAggregator_OrderAgainstSorted(t *testing.T) {
	agg := NewAggregator()
	rng := rand.New(rand.NewPCG(3, 5))

	var reference []float64
	for range 200 {
		v := math.Floor(rng.Float64() * 50) // heavy multiplicities
		agg.Add(v)
		reference = append(reference, v)
	}
	sort.Float64s(reference)

	for i, want := range reference {
		s, ok := agg.Order(uint64(i)) //nolint:gosec
		require.True(t, ok)
		require.Equal(t, want, s.Value, "order(%d)", i)
	}
}

func TestAggregator_Median(t *testing.T) {
	agg := NewAggregator()
	for _, v := range []float64{10, 20, 30} {
		agg.Add(v)
	}
	require.Equal(t, 20.0, agg.Median())

	// Even count: lower median.
	agg.Add(40)
	require.Equal(t, 20.0, agg.Median())
}

func TestAggregator_RandomizedAddDel(t *testing.T) {
	agg := NewAggregator()
	rng := rand.New(rand.NewPCG(1, 2))
	counts := make(map[float64]uint64)

	var total uint64
	for range 2000 {
		v := math.Floor(rng.Float64() * 40)
		if rng.IntN(3) == 0 {
			if agg.Del(v) {
				counts[v]--
				if counts[v] == 0 {
					delete(counts, v)
				}
				total--
			} else {
				assert.Zero(t, counts[v])
			}
		} else {
			agg.Add(v)
			counts[v]++
			total++
		}
	}

	require.Equal(t, total, agg.Count())

	got := make(map[float64]uint64)
	var prev float64 = math.Inf(-1)
	for v, mult := range agg.All() {
		require.Greater(t, v, prev, "iteration must be strictly ascending")
		got[v] = mult
		prev = v
	}
	require.Equal(t, counts, got)
}
