package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/haricheung/magsample/internal/histogram"
	"github.com/haricheung/magsample/internal/sampler"
)

// ANSI codes
const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
)

// Table collects rows and renders them with columns padded to their widest
// cell, measured in terminal cells rather than bytes.
type Table struct {
	header []string
	rows   [][]string
	right  []bool // right-align column i
	color  bool
}

// NewTable creates a table with the given column headers. Headers prefixed
// with ">" are right-aligned (the prefix is dropped).
func NewTable(header ...string) *Table {
	t := &Table{header: make([]string, len(header)), right: make([]bool, len(header))}
	for i, h := range header {
		if rest, ok := strings.CutPrefix(h, ">"); ok {
			t.right[i] = true
			h = rest
		}
		t.header[i] = h
	}
	return t
}

// Color turns ANSI styling of the header on or off.
func (t *Table) Color(on bool) *Table {
	t.color = on
	return t
}

// Row appends one row; cells are formatted with %v. Missing cells render
// blank and extra cells are dropped.
func (t *Table) Row(cells ...any) {
	row := make([]string, len(t.header))
	for i := range min(len(cells), len(row)) {
		row[i] = fmt.Sprint(cells[i])
	}
	t.rows = append(t.rows, row)
}

// Render writes the header, a rule and every row to w.
//
// Expectations:
//   - Every line of a column starts at the same display cell
//   - Wide runes count as two cells
//   - Right-aligned columns pad on the left
func (t *Table) Render(w io.Writer) error {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range t.rows {
		for i, c := range r {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}

	var b strings.Builder
	head := t.line(t.header, widths)
	if t.color {
		head = ansiBold + head + ansiReset
	}
	b.WriteString(head)
	b.WriteByte('\n')
	rule := make([]string, len(widths))
	for i, n := range widths {
		rule[i] = strings.Repeat("─", n)
	}
	b.WriteString(t.line(rule, widths))
	b.WriteByte('\n')
	for _, r := range t.rows {
		b.WriteString(t.line(r, widths))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (t *Table) line(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		if t.right[i] {
			parts[i] = runewidth.FillLeft(c, widths[i])
		} else {
			parts[i] = runewidth.FillRight(c, widths[i])
		}
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

// Bar draws a proportional bar of at most width cells.
func Bar(n, maxN, width int) string {
	if maxN <= 0 || n <= 0 {
		return ""
	}
	cells := max(1, n*width/maxN)
	return strings.Repeat("█", cells)
}

// clip truncates s to at most n display cells, appending "…" if trimmed.
func clip(s string, n int) string {
	return runewidth.Truncate(s, n, "…")
}

// Bins renders the per-bin sampling diagnostics followed by the total line.
func Bins(w io.Writer, bins []sampler.BinReport, available int, color bool) error {
	t := NewTable(">magnetization", ">start", ">population", ">requested", ">selected").Color(color)
	for _, b := range bins {
		t.Row(b.Value, b.Start, b.Population, b.Requested, b.Selected)
	}
	if err := t.Render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total available samples: %d\n", available)
	return err
}

// Histogram renders one row per bucket with a bar scaled to the modal bucket.
func Histogram(w io.Writer, r histogram.Report, barWidth int, color bool) error {
	maxN := 0
	if r.Mode >= 0 {
		maxN = r.Bins[r.Mode].Count
	}
	t := NewTable(">lo", ">hi", ">count", "").Color(color)
	for _, b := range r.Bins {
		t.Row(fmt.Sprintf("%+.3f", b.Lo), fmt.Sprintf("%+.3f", b.Hi), b.Count, Bar(b.Count, maxN, barWidth))
	}
	if err := t.Render(w); err != nil {
		return err
	}
	if r.Mode < 0 {
		_, err := fmt.Fprintf(w, "%d snapshots\n", r.Total)
		return err
	}
	m := r.Bins[r.Mode]
	_, err := fmt.Fprintf(w, "%d snapshots, mean m=%+.4f, mode [%+.3f, %+.3f)\n", r.Total, r.Mean, m.Lo, m.Hi)
	return err
}

// KeyValues renders label/value pairs as a two-column table without a header
// rule. Long values are clipped to maxWidth cells. Labels are dimmed only
// when color is set.
func KeyValues(w io.Writer, pairs [][2]string, maxWidth int, color bool) error {
	width := 0
	for _, p := range pairs {
		width = max(width, runewidth.StringWidth(p[0]))
	}
	var b strings.Builder
	for _, p := range pairs {
		v := p[1]
		if maxWidth > 0 {
			v = clip(v, maxWidth)
		}
		label := runewidth.FillRight(p[0], width)
		if color {
			label = ansiDim + label + ansiReset
		}
		fmt.Fprintf(&b, "%s  %s\n", label, v)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
