package sampler

import (
	"fmt"

	"github.com/haricheung/magsample/internal/rng"
	"github.com/haricheung/magsample/internal/strata"
	"github.com/haricheung/magsample/internal/types"
)

// Vote runs Level A over the shifted values [lo, hi).
//
// The request is split into rounds of 2·L² votes, ⌈samples / 2L²⌉ in total,
// the last one sized to the remainder. A window spanning the whole table holds
// 2·L² + 1 values, so rounds widen to the window size there and a full round
// still reaches every value. Within round r a value is only kept if its bin
// holds more than r rows, so a value can never collect more votes than it has
// rows. hi is clamped to the table.
//
// Expectations:
//   - Returns at most samples draws
//   - Each draw's Value lies in [lo, min(hi, table.Len()))
//   - A value appears at most once per round
//   - Votes for value v never exceed table.Bin(v).Count
//   - A full round votes for every value whose bin is deep enough
//   - Returns ErrInvalidRange for samples < 0, lo < 0 or lo > hi
func Vote(src rng.Source, table *strata.Table, samples, lo, hi int, onRound func(round, size, votes int)) ([]types.Draw, error) {
	if samples < 0 {
		return nil, fmt.Errorf("sample count %d: %w", samples, types.ErrInvalidRange)
	}
	if lo < 0 || lo > hi {
		return nil, fmt.Errorf("magnetization range [%d, %d): %w", lo, hi, types.ErrInvalidRange)
	}
	hi = min(hi, table.Len())
	pop := max(hi-lo, 0)

	roundSize := max(2*table.Sites(), pop)
	rounds := (samples + roundSize - 1) / roundSize

	draws := make([]types.Draw, 0, samples)
	for r := range rounds {
		size := roundSize
		if r == rounds-1 && samples%roundSize != 0 {
			size = samples % roundSize
		}
		picks := Select(src, pop, size, func(i int) bool {
			return table.Bin(lo+i).Count > r
		})
		for _, i := range picks {
			draws = append(draws, types.Draw{Round: r, Value: lo + i})
		}
		if onRound != nil {
			onRound(r, size, len(picks))
		}
	}
	return draws, nil
}

// Rows runs Level B on one bin: it picks min(want, bin.Count) distinct rows
// and returns their absolute catalog offsets.
//
// Expectations:
//   - Never returns more than bin.Count offsets
//   - Every offset lies in [bin.Start, bin.Start+bin.Count)
//   - Returns nil for an empty bin
func Rows(src rng.Source, bin types.Bin, want int) []int {
	offs := Select(src, bin.Count, min(want, bin.Count), nil)
	for i := range offs {
		offs[i] += bin.Start
	}
	return offs
}
