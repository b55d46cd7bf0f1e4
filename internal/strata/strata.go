// Package strata builds the dense magnetization lookup table over a sorted
// catalog. Every possible shifted magnetization (M + L²) has an entry, so a
// bin is found by direct indexing instead of a search.
package strata

import (
	"fmt"

	"github.com/haricheung/magsample/internal/types"
)

// Table maps a shifted magnetization to the run of sorted catalog rows that
// carry it.
type Table struct {
	sites int
	bins  []types.Bin
}

// Build scans the sorted magnetization column once.
//
// Expectations:
//   - len(Bins()) == 2·sites + 1, covering M ∈ [−sites, sites]
//   - Bin(v).Count equals the number of rows with M + sites == v
//   - Σ counts == len(mags)
//   - Bin(v).Start is the first row holding v whenever Count > 0
//   - Returns ErrMagnetizationOutOfRange for |M| > sites
//   - Returns ErrCatalogUnsorted when mags decreases anywhere
func Build(mags []int32, sites int) (*Table, error) {
	if sites <= 0 {
		return nil, fmt.Errorf("table over %d sites: %w", sites, types.ErrAllocationFailure)
	}
	t := &Table{sites: sites, bins: make([]types.Bin, 2*sites+1)}
	highest := -1
	for i, m := range mags {
		v := int(m) + sites
		if v < 0 || v >= len(t.bins) {
			return nil, fmt.Errorf("row %d: magnetization %d outside [-%d, %d]: %w",
				i, m, sites, sites, types.ErrMagnetizationOutOfRange)
		}
		if v < highest {
			return nil, fmt.Errorf("row %d: magnetization %d after %d: %w",
				i, m, highest-sites, types.ErrCatalogUnsorted)
		}
		if v > highest {
			highest = v
			t.bins[v].Start = i
		}
		t.bins[v].Count++
	}
	return t, nil
}

// Sites returns L².
func (t *Table) Sites() int { return t.sites }

// Len returns the number of table entries.
func (t *Table) Len() int { return len(t.bins) }

// Bin returns the entry for shifted magnetization v. Values outside the
// table return an empty bin.
func (t *Table) Bin(v int) types.Bin {
	if v < 0 || v >= len(t.bins) {
		return types.Bin{}
	}
	return t.bins[v]
}

// Bins exposes the dense table. Callers must not modify it.
func (t *Table) Bins() []types.Bin { return t.bins }

// Total returns the number of rows indexed by the table.
func (t *Table) Total() int {
	n := 0
	for _, b := range t.bins {
		n += b.Count
	}
	return n
}

// Summary describes the population of a shifted-magnetization range.
type Summary struct {
	Lo, Hi     int // half-open [Lo, Hi) after clamping to the table
	Population int // rows in range
	NonEmpty   int // distinct values with at least one row
	MaxCount   int // largest single bin
}

// Range summarises [lo, hi), clamped to the table.
//
// Expectations:
//   - Population is the sum of counts over the clamped range
//   - NonEmpty counts bins with Count > 0
//   - An empty or inverted range returns a zero Summary with Lo == Hi
func (t *Table) Range(lo, hi int) Summary {
	lo = min(max(lo, 0), len(t.bins))
	hi = min(hi, len(t.bins))
	if hi < lo {
		hi = lo
	}
	s := Summary{Lo: lo, Hi: hi}
	for _, b := range t.bins[lo:hi] {
		if b.Count == 0 {
			continue
		}
		s.Population += b.Count
		s.NonEmpty++
		s.MaxCount = max(s.MaxCount, b.Count)
	}
	return s
}
