// Package sampler draws a magnetization-stratified, without-replacement
// subset of catalog rows.
//
// Sampling is two-level. Level A decides how many rows each magnetization
// value contributes by running selection sampling over the value range in
// rounds; round r may only pick values whose bin holds more than r rows, so
// draws spread across distinct values before any value is revisited. Level B
// then picks the actual rows inside each chosen bin. Both levels use Select.
package sampler

import "github.com/haricheung/magsample/internal/rng"

// Select performs sequential selection sampling (Knuth's Algorithm S): it
// walks the population [0, n) once and keeps item i with probability
// remainingNeeded / remainingPop, which gives every item an exact m/n chance
// and yields exactly min(m, n) items in ascending order.
//
// keep, when non-nil, vetoes an item after the draw. A vetoed item still
// consumes its draw and its share of the population, so the result can be
// shorter than min(m, n).
//
// Expectations:
//   - Returns min(m, n) distinct ascending offsets in [0, n) when keep is nil
//   - Never returns more than n or more than m offsets
//   - Returns nil for n <= 0 or m <= 0
//   - Draws exactly once per visited item, whether or not keep vetoes it
func Select(src rng.Source, n, m int, keep func(i int) bool) []int {
	if n <= 0 || m <= 0 {
		return nil
	}
	out := make([]int, 0, min(n, m))
	for i := 0; i < n && len(out) < m; i++ {
		if src.IntN(n-i) < m-len(out) && (keep == nil || keep(i)) {
			out = append(out, i)
		}
	}
	return out
}
