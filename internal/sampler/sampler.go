package sampler

import (
	"fmt"
	"log/slog"

	"github.com/haricheung/magsample/internal/metrics"
	"github.com/haricheung/magsample/internal/permute"
	"github.com/haricheung/magsample/internal/rng"
	"github.com/haricheung/magsample/internal/runlog"
	"github.com/haricheung/magsample/internal/strata"
	"github.com/haricheung/magsample/internal/types"
)

// Default shifted-magnetization bounds used when the caller passes -1.
const (
	DefaultMinMag = 10
	DefaultMaxMag = 500
)

// RecordWriter receives the sampled rows.
type RecordWriter interface {
	Write(types.Record) error
}

// Request is one sampling job. MinMag and MaxMag are shifted magnetizations
// (M + L²) bounding the half-open range [MinMag, MaxMag).
type Request struct {
	Samples int
	MinMag  int
	MaxMag  int
}

// BinReport describes how one aggregated bin was sampled.
type BinReport struct {
	Value      int // shifted magnetization
	Start      int // first sorted catalog row of the bin
	Population int // rows in the bin
	Requested  int // Level-A votes
	Selected   int // rows written
}

// Result summarises a finished run.
type Result struct {
	Available int // votes cast across all rounds
	Written   int
	Bins      []BinReport
}

// Sampler runs the stratified draw for one simulation.
// Log and Metrics are optional; nil disables them.
type Sampler struct {
	sim     types.Simulation
	src     rng.Source
	Log     *runlog.RunLog
	Metrics *metrics.Run
}

// New returns a Sampler for sim drawing randomness from src.
func New(sim types.Simulation, src rng.Source) *Sampler {
	return &Sampler{sim: sim, src: src}
}

// Stratify sorts cat by magnetization in place and builds its table.
func Stratify(cat *types.Catalog, sites int) (*strata.Table, error) {
	permute.Sort(cat, cat.Magnetization)
	t, err := strata.Build(cat.Magnetization, sites)
	if err != nil {
		return nil, fmt.Errorf("stratify: %w", err)
	}
	return t, nil
}

// Run sorts and stratifies cat, draws req.Samples rows and writes them to w
// in selection order with the committor fields reset to the sentinel.
//
// Expectations:
//   - Result.Written <= req.Samples
//   - Every written row has M + L² in [MinMag, MaxMag)
//   - No catalog row is written twice
//   - Written rows match their catalog row except for the committor fields
//   - Returns ErrInvalidRange for a negative sample count or inverted range
func (s *Sampler) Run(cat *types.Catalog, req Request, w RecordWriter) (Result, error) {
	var res Result

	table, err := Stratify(cat, s.sim.Sites())
	if err != nil {
		return res, err
	}
	s.Metrics.ObserveCatalog(cat.Len(), table.Range(req.MinMag, req.MaxMag).NonEmpty)
	s.Metrics.AddRequested(req.Samples)

	draws, err := Vote(s.src, table, req.Samples, req.MinMag, req.MaxMag, func(round, size, votes int) {
		s.Log.RoundDrawn(round, size, votes)
		s.Metrics.AddRound(votes)
	})
	if err != nil {
		return res, err
	}
	res.Available = len(draws)
	slog.Debug("[SAMPLER] level A done", "requested", req.Samples, "votes", len(draws))

	for _, agg := range Aggregate(draws) {
		bin := table.Bin(agg.Value)
		rows := Rows(s.src, bin, agg.Count)
		for _, off := range rows {
			rec := cat.Row(off)
			rec.CommittorMean = types.CommittorSentinel
			rec.CommittorStd = types.CommittorSentinel
			if err := w.Write(rec); err != nil {
				return res, fmt.Errorf("write sample: %w", err)
			}
		}
		res.Written += len(rows)
		res.Bins = append(res.Bins, BinReport{
			Value:      agg.Value,
			Start:      bin.Start,
			Population: bin.Count,
			Requested:  agg.Count,
			Selected:   len(rows),
		})
		s.Log.BinSampled(agg.Value, bin.Start, bin.Count, agg.Count, len(rows))
		s.Metrics.AddWritten(len(rows))
	}
	return res, nil
}
