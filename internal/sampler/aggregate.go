package sampler

import (
	"github.com/haricheung/magsample/internal/permute"
	"github.com/haricheung/magsample/internal/types"
)

// Aggregate merges Level-A votes into one demand per value, ascending.
// [5,5,5,7,9,9] becomes [(5,3),(7,1),(9,2)].
func Aggregate(draws []types.Draw) []types.AggregatedBin {
	values := make([]int, len(draws))
	for i, d := range draws {
		values[i] = d.Value
	}
	permute.SortSlice(values)
	return runLength(values)
}

// runLength encodes an ascending slice as (value, run length) pairs.
func runLength(sorted []int) []types.AggregatedBin {
	var out []types.AggregatedBin
	for _, v := range sorted {
		if n := len(out); n > 0 && out[n-1].Value == v {
			out[n-1].Count++
			continue
		}
		out = append(out, types.AggregatedBin{Value: v, Count: 1})
	}
	return out
}
