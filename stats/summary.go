package stats

import (
	"fmt"
	"math"

	"github.com/DataDog/sketches-go/ddsketch"
)

// DefaultRelativeAccuracy is the DDSketch relative accuracy used when
// percentile tracking is enabled without an explicit accuracy.
const DefaultRelativeAccuracy = 0.01

// Summary is a cheap, mergeable running summary of a sample stream.
//
// It keeps count, sum, min and max exactly, and optionally tracks
// approximate percentiles through a DDSketch. Unlike Aggregator it does not
// support removal, which is what makes two Summaries mergeable; use it for
// per-series rollups that may later be combined.
//
// Not safe for concurrent use.
type Summary struct {
	sketch *ddsketch.DDSketch

	count uint64
	sum   float64
	min   float64
	max   float64
}

// NewSummary creates a Summary without percentile tracking.
func NewSummary() *Summary {
	return &Summary{
		min: math.MaxFloat64,
		max: -math.MaxFloat64,
	}
}

// NewSummaryWithPercentiles creates a Summary whose Quantile method is
// backed by a DDSketch with the given relative accuracy; pass
// DefaultRelativeAccuracy unless a different error bound is needed.
//
// Returns:
//   - *Summary: Ready summary
//   - error: DDSketch construction errors for an out-of-range accuracy
func NewSummaryWithPercentiles(relativeAccuracy float64) (*Summary, error) {
	sketch, err := ddsketch.NewDefaultDDSketch(relativeAccuracy)
	if err != nil {
		return nil, fmt.Errorf("create ddsketch: %w", err)
	}

	s := NewSummary()
	s.sketch = sketch

	return s, nil
}

// Add folds one value into the summary.
func (s *Summary) Add(v float64) {
	s.count++
	s.sum += v

	if v < s.min {
		s.min = v
	}
	if v > s.max {
		s.max = v
	}

	if s.sketch != nil {
		// Only fails for non-finite values, which the scalar aggregates
		// tolerate; keep both views consistent by skipping the sketch too.
		_ = s.sketch.Add(v)
	}
}

// Count returns the number of values added.
func (s *Summary) Count() uint64 {
	return s.count
}

// Sum returns the sum of added values.
func (s *Summary) Sum() float64 {
	return s.sum
}

// Mean returns the arithmetic mean, or NaN when empty.
func (s *Summary) Mean() float64 {
	if s.count == 0 {
		return math.NaN()
	}

	return s.sum / float64(s.count)
}

// Minimum returns the smallest value added, or NaN when empty.
func (s *Summary) Minimum() float64 {
	if s.count == 0 {
		return math.NaN()
	}

	return s.min
}

// Maximum returns the largest value added, or NaN when empty.
func (s *Summary) Maximum() float64 {
	if s.count == 0 {
		return math.NaN()
	}

	return s.max
}

// Quantile returns the approximate value at quantile q in [0, 1].
//
// Returns:
//   - float64: Approximate quantile value
//   - bool: false when the summary is empty or percentile tracking is
//     disabled
func (s *Summary) Quantile(q float64) (float64, bool) {
	if s.sketch == nil || s.count == 0 {
		return 0, false
	}

	v, err := s.sketch.GetValueAtQuantile(q)
	if err != nil {
		return 0, false
	}

	return v, true
}

// Merge folds other into s. Both summaries must have been created the same
// way: merging a percentile-tracking summary with a plain one merges only
// the scalar aggregates.
//
// Returns:
//   - error: DDSketch merge errors when the sketches are incompatible
func (s *Summary) Merge(other *Summary) error {
	if other.count == 0 {
		return nil
	}

	s.count += other.count
	s.sum += other.sum

	if other.min < s.min {
		s.min = other.min
	}
	if other.max > s.max {
		s.max = other.max
	}

	if s.sketch != nil && other.sketch != nil {
		if err := s.sketch.MergeWith(other.sketch); err != nil {
			return fmt.Errorf("merge ddsketch: %w", err)
		}
	}

	return nil
}
