package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/haricheung/magsample/internal/rng"
)

// countingSource wraps a Source and counts draws.
type countingSource struct {
	rng.Source
	draws int
}

func (c *countingSource) IntN(n int) int {
	c.draws++
	return c.Source.IntN(n)
}

// sequence replays fixed draws, each reduced modulo n, so a test can force a
// particular selection path.
type sequence struct {
	values []int
	pos    int
}

func (s *sequence) IntN(n int) int {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return ((v % n) + n) % n
}

func assertDistinctAscending(t *testing.T, offs []int, n int) {
	t.Helper()
	for i, o := range offs {
		assert.GreaterOrEqual(t, o, 0)
		assert.Less(t, o, n)
		if i > 0 {
			assert.Greater(t, o, offs[i-1])
		}
	}
}

func TestSelect_ExactSize(t *testing.T) {
	// Returns exactly min(m, n) distinct ascending offsets in [0, n)
	src := rng.New(3)
	for _, tc := range []struct{ n, m int }{
		{10, 0}, {10, 1}, {10, 5}, {10, 10}, {1, 1}, {100, 37}, {7, 20},
	} {
		offs := Select(src, tc.n, tc.m, nil)
		assert.Len(t, offs, min(tc.n, tc.m), "n=%d m=%d", tc.n, tc.m)
		assertDistinctAscending(t, offs, tc.n)
	}
}

func TestSelect_EmptyPopulation(t *testing.T) {
	assert.Nil(t, Select(rng.New(1), 0, 3, nil))
	assert.Nil(t, Select(rng.New(1), -2, 3, nil))
	assert.Nil(t, Select(rng.New(1), 5, -1, nil))
}

func TestSelect_TailIsForced(t *testing.T) {
	// Once the remaining population equals the remaining need, every item is taken
	src := &sequence{values: []int{4, 3, 2, 1, 0}}
	assert.Equal(t, []int{3, 4}, Select(src, 5, 2, nil))
}

func TestSelect_ZeroDrawsTakeThePrefix(t *testing.T) {
	src := &sequence{values: []int{0}}
	assert.Equal(t, []int{0, 1, 2}, Select(src, 8, 3, nil))
}

func TestSelect_VetoConsumesDraw(t *testing.T) {
	// A vetoed item still costs one draw, so the stream position does not
	// depend on eligibility
	src := &countingSource{Source: &sequence{values: []int{0}}}
	offs := Select(src, 6, 2, func(i int) bool { return i%2 == 1 })
	assert.Equal(t, []int{1, 3}, offs)
	assert.Equal(t, 4, src.draws)
}

func TestSelect_UniformInclusion(t *testing.T) {
	// Each index is selected with frequency m/n; a chi-square test over the
	// inclusion counts does not reject uniformity
	const (
		n      = 20
		m      = 5
		trials = 20000
	)
	src := rng.New(20260101)
	counts := make([]float64, n)
	for range trials {
		offs := Select(src, n, m, nil)
		require.Len(t, offs, m)
		for _, o := range offs {
			counts[o]++
		}
	}

	want := float64(m) / float64(n)
	expected := make([]float64, n)
	for i := range expected {
		expected[i] = trials * want
		assert.InDelta(t, want, counts[i]/trials, 0.02, "index %d", i)
	}
	chi := stat.ChiSquare(counts, expected)
	p := 1 - distuv.ChiSquared{K: n - 1}.CDF(chi)
	assert.Greater(t, p, 1e-4, "chi2=%.2f", chi)
}

// ── Rows ─────────────────────────────────────────────────────────────────────

func TestRows_CappedAtBinCount(t *testing.T) {
	// Level B never returns more than bin.Count rows
	offs := Rows(rng.New(9), binOf(10, 3), 7)
	assert.Equal(t, []int{10, 11, 12}, offs)
}

func TestRows_OffsetsInsideBin(t *testing.T) {
	offs := Rows(rng.New(9), binOf(100, 50), 12)
	require.Len(t, offs, 12)
	for _, o := range offs {
		assert.GreaterOrEqual(t, o, 100)
		assert.Less(t, o, 150)
	}
}

func TestRows_EmptyBin(t *testing.T) {
	assert.Empty(t, Rows(rng.New(1), binOf(0, 0), 4))
}
