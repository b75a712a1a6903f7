// Package stats maintains running statistics over ingested sample values.
//
// Two structures are provided with different trade-offs:
//
//   - Aggregator: an exact multiset of samples supporting insertion and
//     removal, O(1) count/min/max/mean/stddev, and logarithmic weighted
//     percentile and positional (rank) queries. Use it when samples are
//     also removed, e.g. sliding windows or corrections, and exact order
//     statistics matter.
//
//   - Summary: a cheap, mergeable running summary (count, sum, min, max)
//     with optional approximate percentiles backed by DDSketch. Use it for
//     per-series or per-bucket rollups where deletion is never needed and
//     summaries from different sources must merge.
//
// Neither structure is safe for concurrent use; drive each instance from a
// single goroutine.
package stats
