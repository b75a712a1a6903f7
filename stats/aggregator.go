package stats

import (
	"iter"
	"math"
	"math/rand/v2"
)

// Sample is one distinct value in an Aggregator together with its
// multiplicity.
type Sample struct {
	// Value is the sample value.
	Value float64
	// Multiplicity is the number of occurrences currently held.
	Multiplicity uint64
}

// treapNode is one distinct value in the multiset. The tree is ordered by
// value and heap-ordered by prio; weight is the total multiplicity of the
// subtree, which makes positional selection a guided descent.
type treapNode struct {
	left  *treapNode
	right *treapNode

	value  float64
	mult   uint64
	weight uint64
	prio   uint64
}

// w returns the subtree weight, tolerating a nil receiver.
func (n *treapNode) w() uint64 {
	if n == nil {
		return 0
	}

	return n.weight
}

// update recomputes the subtree weight from the node and its children.
func (n *treapNode) update() {
	n.weight = n.mult + n.left.w() + n.right.w()
}

// Aggregator is an exact running multiset of float64 samples.
//
// Distinct values live in a randomized size-augmented treap, so Add, Del,
// Order and Rank cost O(log n) in the number of distinct values, while the
// scalar aggregates (count, sum, sum of squares) are maintained inline for
// O(1) Mean and Std.
//
// Not safe for concurrent use.
type Aggregator struct {
	root *treapNode
	rng  *rand.Rand

	count uint64
	sum   float64
	sumSq float64
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec
	}
}

// Add inserts one occurrence of v and updates the maintained aggregates.
func (a *Aggregator) Add(v float64) {
	a.root = a.insert(a.root, v)
	a.count++
	a.sum += v
	a.sumSq += v * v
}

// Del removes one occurrence of v.
//
// Removing the last occurrence removes the value from both the value-order
// and rank-order views. Deleting a value with zero current multiplicity is
// a detectable no-op.
//
// Returns:
//   - bool: true if an occurrence was removed, false if v was not present
//     (the aggregator is unchanged)
func (a *Aggregator) Del(v float64) bool {
	root, ok := a.remove(a.root, v)
	if !ok {
		return false
	}

	a.root = root
	a.count--
	a.sum -= v
	a.sumSq -= v * v

	if a.count == 0 {
		// Compensate float drift so an emptied aggregator is exactly empty.
		a.sum = 0
		a.sumSq = 0
	}

	return true
}

// Count returns the total number of occurrences held.
func (a *Aggregator) Count() uint64 {
	return a.count
}

// Minimum returns the smallest sample value, or NaN when empty.
func (a *Aggregator) Minimum() float64 {
	n := a.root
	if n == nil {
		return math.NaN()
	}

	for n.left != nil {
		n = n.left
	}

	return n.value
}

// Maximum returns the largest sample value, or NaN when empty.
func (a *Aggregator) Maximum() float64 {
	n := a.root
	if n == nil {
		return math.NaN()
	}

	for n.right != nil {
		n = n.right
	}

	return n.value
}

// Mean returns the arithmetic mean, or NaN when empty.
func (a *Aggregator) Mean() float64 {
	if a.count == 0 {
		return math.NaN()
	}

	return a.sum / float64(a.count)
}

// Std returns the population standard deviation, or NaN when empty.
func (a *Aggregator) Std() float64 {
	if a.count == 0 {
		return math.NaN()
	}

	mean := a.Mean()
	variance := a.sumSq/float64(a.count) - mean*mean
	if variance < 0 {
		// Float rounding can push a zero variance slightly negative.
		variance = 0
	}

	return math.Sqrt(variance)
}

// Median returns Rank(0.5): the lower median for even counts.
func (a *Aggregator) Median() float64 {
	return a.Rank(0.5)
}

// Rank returns the value at the weighted percentile p in [0, 1], counting
// multiplicities: Rank(0) is the minimum, Rank(1) the maximum, and
// Rank(p1) <= Rank(p2) whenever p1 <= p2. p outside [0, 1] is clamped.
// Returns NaN when empty.
func (a *Aggregator) Rank(p float64) float64 {
	if a.count == 0 {
		return math.NaN()
	}

	p = math.Min(math.Max(p, 0), 1)
	idx := uint64(math.Floor(p * float64(a.count-1)))

	s, _ := a.Order(idx)

	return s.Value
}

// Order returns the i-th smallest occurrence, 0-based and counting
// multiplicities, so Order(0) is the minimum and Order(Count()-1) the
// maximum.
//
// Returns:
//   - Sample: The selected value and its total multiplicity
//   - bool: false when i >= Count()
func (a *Aggregator) Order(i uint64) (Sample, bool) {
	if i >= a.count {
		return Sample{}, false
	}

	n := a.root
	for {
		lw := n.left.w()
		if i < lw {
			n = n.left
			continue
		}
		i -= lw

		if i < n.mult {
			return Sample{Value: n.value, Multiplicity: n.mult}, true
		}
		i -= n.mult
		n = n.right
	}
}

// All returns an iterator over (value, multiplicity) pairs in ascending
// value order. A fresh iterator always starts at the smallest value.
func (a *Aggregator) All() iter.Seq2[float64, uint64] {
	return func(yield func(float64, uint64) bool) {
		var stack []*treapNode

		n := a.root
		for n != nil || len(stack) > 0 {
			for n != nil {
				stack = append(stack, n)
				n = n.left
			}

			n = stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(n.value, n.mult) {
				return
			}

			n = n.right
		}
	}
}

// insert adds one occurrence of v under n and returns the new subtree root.
func (a *Aggregator) insert(n *treapNode, v float64) *treapNode {
	if n == nil {
		return &treapNode{value: v, mult: 1, weight: 1, prio: a.rng.Uint64()}
	}

	switch {
	case v == n.value:
		n.mult++
	case v < n.value:
		n.left = a.insert(n.left, v)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	default:
		n.right = a.insert(n.right, v)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}

	n.update()

	return n
}

// remove deletes one occurrence of v under n. The bool result reports
// whether v was found; when false the subtree is returned unchanged.
func (a *Aggregator) remove(n *treapNode, v float64) (*treapNode, bool) {
	if n == nil {
		return nil, false
	}

	var ok bool

	switch {
	case v < n.value:
		n.left, ok = a.remove(n.left, v)
	case v > n.value:
		n.right, ok = a.remove(n.right, v)
	default:
		ok = true
		if n.mult > 1 {
			n.mult--
		} else {
			n = deleteNode(n)
			if n == nil {
				return nil, true
			}
		}
	}

	if ok {
		n.update()
	}

	return n, ok
}

// deleteNode rotates n down until it has at most one child, then splices
// it out. Weights along the rotation path are fixed up as it descends.
func deleteNode(n *treapNode) *treapNode {
	switch {
	case n.left == nil:
		return n.right
	case n.right == nil:
		return n.left
	case n.left.prio > n.right.prio:
		root := rotateRight(n)
		root.right = deleteNode(root.right)
		root.update()

		return root
	default:
		root := rotateLeft(n)
		root.left = deleteNode(root.left)
		root.update()

		return root
	}
}

func rotateRight(n *treapNode) *treapNode {
	l := n.left
	n.left = l.right
	l.right = n
	n.update()
	l.update()

	return l
}

func rotateLeft(n *treapNode) *treapNode {
	r := n.right
	n.right = r.left
	r.left = n
	n.update()
	r.update()

	return r
}
