package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/haricheung/magsample/internal/config"
	"github.com/haricheung/magsample/internal/gridindex"
)

func newIndexCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the index catalog from the packed grid states",
		Long: `Reads every grid of gridstates.bin, computes its magnetization and writes
one index record per (slice, replica) with empty committor fields.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := config.ReadSimulation(o.paths.Config)
			if err != nil {
				return err
			}
			if err := config.Validate(sim); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			last := -1
			n, err := gridindex.BuildFile(o.paths.GridStates, o.paths.Index, sim, func(done, total int) {
				pct := 100 * done / total
				if pct != last {
					fmt.Fprintf(w, "\rPercentage of magnetizations calculated: %d%%", pct)
					last = pct
				}
				slog.Debug("[INDEX] slice done", "slice", done, "of", total)
			})
			fmt.Fprintln(w)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Indexed %d grids into %s\n", n, o.paths.Index)
			return nil
		},
	}
	cmd.Flags().StringVar(&o.paths.GridStates, "gridstates", o.paths.GridStates, "packed grid dump ($MAGSAMPLE_GRIDSTATES)")
	return cmd
}
