package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/haricheung/magsample/internal/config"
)

// options carries the persistent flags shared by every subcommand.
type options struct {
	paths   config.Paths
	verbose bool
}

// resolve applies the parsed flag values. It is safe to call again after a
// command parses flags of its own.
func (o *options) resolve() {
	if o.verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	o.paths.Config = config.ExpandHome(o.paths.Config)
	o.paths.GridStates = config.ExpandHome(o.paths.GridStates)
	o.paths.Index = config.ExpandHome(o.paths.Index)
	o.paths.Output = config.ExpandHome(o.paths.Output)
	o.paths.LogDir = config.ExpandHome(o.paths.LogDir)
	o.paths.MetricsFile = config.ExpandHome(o.paths.MetricsFile)
}

// colorOutput reports whether w is a terminal that should get ANSI styling.
func colorOutput(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && readline.IsTerminal(int(f.Fd()))
}

// newRootCmd wires the command tree. Path flags default to the environment,
// then to the simulator's file names.
func newRootCmd(out io.Writer) *cobra.Command {
	o := &options{paths: config.ResolvePaths()}

	root := &cobra.Command{
		Use:   "magsample",
		Short: "Stratified snapshot sampling for 2D Ising simulation runs",
		Long: `magsample draws snapshot subsets from an Ising run's index catalog so that
every magnetization in a chosen window is represented, not just the
equilibrium peak. The sample catalog feeds committor estimation.

Typical flow:
  magsample index                 # gridstates.bin -> index.bin
  magsample histogram             # see what the run visited
  magsample sample 1000 -1 -1     # index.bin -> committor_index.bin`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			o.resolve()
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&o.paths.Config, "config", o.paths.Config, "simulation config record ($MAGSAMPLE_CONFIG)")
	pf.StringVar(&o.paths.Index, "index", o.paths.Index, "index catalog ($MAGSAMPLE_INDEX)")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newSampleCmd(o),
		newIndexCmd(o),
		newConfigCmd(o),
		newHistogramCmd(o),
		newInspectCmd(o),
	)
	return root
}
