// Package gridindex turns the simulator's bit-packed grid dump into the
// index catalog: one record per (slice, replica) carrying the grid's
// magnetization and sentinel committor fields.
//
// Each grid is ⌈L²/8⌉ bytes, one spin per bit, least significant bit first,
// 1 for spin up and 0 for spin down. Grid (s, g) starts at
//
//	12 + s·(12 + R·B) + g·B
//
// where R is the replica count and B the bytes per grid.
package gridindex

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/bits"
	"os"

	"github.com/haricheung/magsample/internal/catalog"
	"github.com/haricheung/magsample/internal/types"
)

// HeaderSize is the size of the file header and of every slice header.
const HeaderSize = 12

// Layout locates packed grids inside a grid state file.
type Layout struct {
	Sites        int
	Replicas     int
	Slices       int
	BytesPerGrid int
}

// NewLayout derives the file layout from the simulation parameters.
func NewLayout(sim types.Simulation) Layout {
	sites := sim.Sites()
	return Layout{
		Sites:        sites,
		Replicas:     int(sim.NReplicas),
		Slices:       sim.Slices(),
		BytesPerGrid: (sites + 7) / 8,
	}
}

// Offset returns the byte offset of grid g in slice s.
func (l Layout) Offset(s, g int) int64 {
	stride := int64(HeaderSize + l.Replicas*l.BytesPerGrid)
	return HeaderSize + int64(s)*stride + int64(g*l.BytesPerGrid)
}

// Magnetization sums the spins of one packed grid: 2·(spins up) − sites.
// Padding bits beyond sites are ignored.
//
// Expectations:
//   - All-zero bytes give −sites
//   - All-one bytes give +sites
//   - Bits past sites in the last byte do not contribute
func Magnetization(packed []byte, sites int) int32 {
	full := sites / 8
	up := 0
	for _, b := range packed[:full] {
		up += bits.OnesCount8(b)
	}
	if rem := sites % 8; rem != 0 {
		up += bits.OnesCount8(packed[full] & byte(1<<rem-1))
	}
	return int32(2*up - sites)
}

// RecordWriter receives index records in slice-major order.
type RecordWriter interface {
	Write(types.Record) error
}

// Build reads every grid described by layout from r and writes one index
// record per grid to w. onSlice, when non-nil, is called after each slice.
// It returns the number of records written.
//
// Expectations:
//   - Writes Slices·Replicas records, slice-major
//   - Record slice index is s·SliceInterval and grid index is g
//   - Committor fields are the sentinel
//   - Returns ErrRecordTruncated when r ends before the last grid
func Build(r io.ReaderAt, layout Layout, w RecordWriter, onSlice func(done, total int)) (int, error) {
	buf := make([]byte, layout.BytesPerGrid)
	n := 0
	for s := range layout.Slices {
		for g := range layout.Replicas {
			off := layout.Offset(s, g)
			if _, err := r.ReadAt(buf, off); err != nil {
				if errors.Is(err, io.EOF) {
					return n, fmt.Errorf("grid %d of slice %d at byte %d: %w", g, s, off, types.ErrRecordTruncated)
				}
				return n, fmt.Errorf("read grid %d of slice %d: %w", g, s, err)
			}
			rec := types.Record{
				Slice:         int32(s * types.SliceInterval),
				Grid:          int32(g),
				Magnetization: Magnetization(buf, layout.Sites),
				CommittorMean: types.CommittorSentinel,
				CommittorStd:  types.CommittorSentinel,
			}
			if err := w.Write(rec); err != nil {
				return n, err
			}
			n++
		}
		if onSlice != nil {
			onSlice(s+1, layout.Slices)
		}
	}
	return n, nil
}

// BuildFile indexes gridPath into a fresh catalog at indexPath.
func BuildFile(gridPath, indexPath string, sim types.Simulation, onSlice func(done, total int)) (int, error) {
	in, err := os.Open(gridPath)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w: %v", gridPath, types.ErrGridsUnavailable, err)
	}
	defer in.Close()

	out, err := catalog.Create(indexPath)
	if err != nil {
		return 0, err
	}
	n, err := Build(in, NewLayout(sim), out, onSlice)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("index %s: %w", gridPath, err)
	}
	slog.Debug("[INDEX] catalog written", "path", indexPath, "records", n)
	return n, nil
}
