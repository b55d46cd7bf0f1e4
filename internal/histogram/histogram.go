// Package histogram bins per-site magnetization m = M/L² of a catalog into
// equal-width bins on [−1, 1].
package histogram

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/haricheung/magsample/internal/types"
)

// Bin is one histogram bucket covering [Lo, Hi). The last bucket also
// includes m = 1.
type Bin struct {
	Lo, Hi float64
	Count  int
}

// Report is a finished histogram.
type Report struct {
	Bins  []Bin
	Total int
	Mode  int // index of the fullest bin, first on ties; −1 when empty
	Mean  float64
}

// Build bins mags (total magnetizations over sites spins) into k buckets.
//
// Expectations:
//   - Bin counts sum to len(mags)
//   - m = −1 lands in the first bin and m = +1 in the last
//   - k < 1 or sites < 1 returns ErrInvalidRange
//   - |M| > sites returns ErrMagnetizationOutOfRange
func Build(mags []int32, sites, k int) (Report, error) {
	if k < 1 || sites < 1 {
		return Report{}, fmt.Errorf("histogram with %d bins over %d sites: %w", k, sites, types.ErrInvalidRange)
	}
	x := make([]float64, len(mags))
	for i, m := range mags {
		if int(m) < -sites || int(m) > sites {
			return Report{}, fmt.Errorf("row %d: M=%d with %d sites: %w", i, m, sites, types.ErrMagnetizationOutOfRange)
		}
		x[i] = float64(m) / float64(sites)
	}
	slices.Sort(x)

	dividers := make([]float64, k+1)
	floats.Span(dividers, -1, 1)
	// stat.Histogram treats the last divider as exclusive.
	top := dividers[k]
	dividers[k] = math.Nextafter(1, 2)
	counts := stat.Histogram(nil, dividers, x, nil)
	dividers[k] = top

	r := Report{Bins: make([]Bin, k), Total: len(x), Mode: -1}
	for i, c := range counts {
		r.Bins[i] = Bin{Lo: dividers[i], Hi: dividers[i+1], Count: int(c)}
	}
	if len(x) > 0 {
		r.Mode = floats.MaxIdx(counts)
		r.Mean = stat.Mean(x, nil)
	}
	return r, nil
}
