package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haricheung/magsample/internal/histogram"
	"github.com/haricheung/magsample/internal/sampler"
)

// ── Table ────────────────────────────────────────────────────────────────────

func TestTable_Render_AlignsColumns(t *testing.T) {
	// Every line of a column starts at the same display cell
	tb := NewTable("name", ">n")
	tb.Row("a", 1)
	tb.Row("longer", 12345)
	var buf bytes.Buffer
	require.NoError(t, tb.Render(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "name        n", lines[0])
	assert.Equal(t, "──────  ─────", lines[1])
	assert.Equal(t, "a           1", lines[2])
	assert.Equal(t, "longer  12345", lines[3])
}

func TestTable_Render_WideRunes(t *testing.T) {
	// Wide runes count as two cells
	tb := NewTable("k", ">v")
	tb.Row("磁化", 1)
	tb.Row("m", 2)
	var buf bytes.Buffer
	require.NoError(t, tb.Render(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for _, l := range lines[1:] {
		assert.Equal(t, 7, runewidth.StringWidth(l), l)
	}
}

func TestTable_Row_PadsAndDrops(t *testing.T) {
	tb := NewTable("a", "b")
	tb.Row("x")
	tb.Row("1", "2", "3")
	assert.Len(t, tb.rows, 2)
	assert.Equal(t, []string{"x", ""}, tb.rows[0])
	assert.Equal(t, []string{"1", "2"}, tb.rows[1])
}

func TestTable_Color(t *testing.T) {
	tb := NewTable("a").Color(true)
	var buf bytes.Buffer
	require.NoError(t, tb.Render(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), ansiBold))
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func TestBar(t *testing.T) {
	assert.Equal(t, "", Bar(0, 10, 20))
	assert.Equal(t, "", Bar(5, 0, 20))
	assert.Equal(t, strings.Repeat("█", 20), Bar(10, 10, 20))
	assert.Equal(t, "█", Bar(1, 1000, 20))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abcd…", clip("abcdefgh", 5))
}

// ── Reports ──────────────────────────────────────────────────────────────────

func TestBins_WritesTotalLine(t *testing.T) {
	var buf bytes.Buffer
	err := Bins(&buf, []sampler.BinReport{
		{Value: 10, Start: 0, Population: 3, Requested: 2, Selected: 2},
		{Value: 12, Start: 3, Population: 40, Requested: 5, Selected: 5},
	}, 7, false)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "magnetization")
	assert.True(t, strings.HasSuffix(out, "Total available samples: 7\n"))
	assert.Equal(t, 5, strings.Count(out, "\n"))
}

func TestHistogram_Render(t *testing.T) {
	r, err := histogram.Build([]int32{-16, 16, 16}, 16, 2)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Histogram(&buf, r, 10, false))

	out := buf.String()
	assert.Contains(t, out, strings.Repeat("█", 10))
	assert.Contains(t, out, "3 snapshots")
	assert.Contains(t, out, "mode [+0.000, +1.000)")
}

func TestKeyValues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, KeyValues(&buf, [][2]string{{"run", "abc"}, {"seed", "1234567890"}}, 6, true))
	out := buf.String()
	assert.Contains(t, out, ansiDim+"run "+ansiReset+"  abc\n")
	assert.Contains(t, out, "12345…")
}

func TestKeyValues_PlainWithoutColor(t *testing.T) {
	// Output meant for pipes and files carries no escape codes
	var buf bytes.Buffer
	require.NoError(t, KeyValues(&buf, [][2]string{{"run", "abc"}, {"seed", "42"}}, 0, false))
	assert.Equal(t, "run   abc\nseed  42\n", buf.String())
	assert.NotContains(t, buf.String(), "\033[")
}

func TestReports_PlainWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Bins(&buf, []sampler.BinReport{{Value: 10, Population: 3, Requested: 1, Selected: 1}}, 1, false))
	r, err := histogram.Build([]int32{0}, 16, 2)
	require.NoError(t, err)
	require.NoError(t, Histogram(&buf, r, 10, false))
	assert.NotContains(t, buf.String(), "\033[")
}
