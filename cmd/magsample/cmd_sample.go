package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/haricheung/magsample/internal/catalog"
	"github.com/haricheung/magsample/internal/config"
	"github.com/haricheung/magsample/internal/metrics"
	"github.com/haricheung/magsample/internal/rng"
	"github.com/haricheung/magsample/internal/runlog"
	"github.com/haricheung/magsample/internal/sampler"
	"github.com/haricheung/magsample/internal/ui"
)

type sampleFlags struct {
	seed uint64
}

func newSampleCmd(o *options) *cobra.Command {
	f := &sampleFlags{}
	cmd := &cobra.Command{
		Use:   "sample <sampleCount> <minMag|-1> <maxMag|-1>",
		Short: "Draw a magnetization-stratified sample catalog",
		Long: `Sorts the index catalog by magnetization and draws up to sampleCount rows
whose shifted magnetization M + L² lies in [minMag, maxMag). Every value in
the window gets an equal share before any value gets a second one.

Pass -1 for either bound to use its default (10 and 500).

Examples:
  magsample sample 1000 -1 -1
  magsample sample 200 4000 4200 --seed 7`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			args, err := parseTrailingFlags(cmd, args, 3)
			if err != nil {
				return err
			}
			o.resolve()
			req, err := parseSampleArgs(args)
			if err != nil {
				return err
			}
			return runSample(cmd, o, f, req)
		},
	}
	// Bounds are commonly -1; stop flag parsing at the first positional so
	// they are not read as shorthand flags.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "RNG seed ($MAGSAMPLE_SEED, default wall clock)")
	cmd.Flags().StringVar(&o.paths.Output, "output", o.paths.Output, "sample catalog to write ($MAGSAMPLE_OUTPUT)")
	cmd.Flags().StringVar(&o.paths.LogDir, "log-dir", o.paths.LogDir, "directory for the JSONL run log ($MAGSAMPLE_LOG_DIR)")
	cmd.Flags().StringVar(&o.paths.MetricsFile, "metrics-file", o.paths.MetricsFile, "Prometheus textfile to write ($MAGSAMPLE_METRICS_FILE)")
	return cmd
}

// seedSource picks the seed: flag, then environment, then the clock.
func seedSource(cmd *cobra.Command, f *sampleFlags) *rng.PCG {
	if cmd.Flags().Changed("seed") {
		return rng.New(f.seed)
	}
	if v, ok := config.GetenvUint("SEED"); ok {
		return rng.New(v)
	}
	return rng.NewFromClock()
}

func runSample(cmd *cobra.Command, o *options, f *sampleFlags, req sampler.Request) (err error) {
	start := time.Now()

	sim, err := config.ReadSimulation(o.paths.Config)
	if err != nil {
		return err
	}
	if err := config.Validate(sim); err != nil {
		return err
	}

	src := seedSource(cmd, f)
	runID := uuid.NewString()
	met := metrics.New(runID)
	var rlog *runlog.RunLog
	if o.paths.LogDir != "" {
		rlog = runlog.Open(o.paths.LogDir, runID)
	}
	defer func() {
		status := "ok"
		if err != nil {
			status = "failed"
		}
		rlog.Close(status)
	}()
	slog.Debug("[SAMPLE] run started", "run_id", runID, "seed", src.Seed())

	cat, err := catalog.LoadFile(o.paths.Index, sim.CatalogLen())
	if err != nil {
		return err
	}
	rlog.RunBegin(src.Seed(), req.Samples, req.MinMag, req.MaxMag, cat.Len())

	out, err := catalog.Create(o.paths.Output)
	if err != nil {
		return err
	}
	s := sampler.New(sim, src)
	s.Log = rlog
	s.Metrics = met
	res, err := s.Run(cat, req, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	color := colorOutput(w)
	if err := ui.Bins(w, res.Bins, res.Available, color); err != nil {
		return err
	}
	elapsed := time.Since(start)
	fmt.Fprintf(w, "Time taken: %.2f seconds\n", elapsed.Seconds())

	info := [][2]string{
		{"run", runID},
		{"seed", strconv.FormatUint(src.Seed(), 10)},
		{"written", fmt.Sprintf("%d -> %s", res.Written, o.paths.Output)},
	}
	if rlog != nil {
		st := rlog.Stats()
		info = append(info, [2]string{"log", fmt.Sprintf("%s (%d rounds, %d votes, %d bins)",
			runlog.Path(o.paths.LogDir, rlog.RunID()), st.Rounds, st.Votes, st.Bins)})
	}

	met.SetDuration(elapsed)
	if o.paths.MetricsFile != "" {
		if err := met.WriteTextfile(o.paths.MetricsFile); err != nil {
			return err
		}
		info = append(info, [2]string{"metrics", o.paths.MetricsFile})
	}
	return ui.KeyValues(w, info, 0, color)
}
