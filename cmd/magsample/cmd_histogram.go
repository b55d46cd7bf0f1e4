package main

import (
	"github.com/spf13/cobra"

	"github.com/haricheung/magsample/internal/catalog"
	"github.com/haricheung/magsample/internal/config"
	"github.com/haricheung/magsample/internal/histogram"
	"github.com/haricheung/magsample/internal/ui"
)

func newHistogramCmd(o *options) *cobra.Command {
	var bins, width int
	cmd := &cobra.Command{
		Use:   "histogram [catalog]",
		Short: "Histogram of per-site magnetization over a catalog",
		Long: `Bins m = M/L² of every row of a catalog (the index catalog by default, or
any sample catalog) into equal-width bins on [-1, 1].`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := config.ReadSimulation(o.paths.Config)
			if err != nil {
				return err
			}
			path := o.paths.Index
			if len(args) == 1 {
				path = config.ExpandHome(args[0])
			}
			cat, err := catalog.ReadFile(path)
			if err != nil {
				return err
			}
			r, err := histogram.Build(cat.Magnetization, sim.Sites(), bins)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			return ui.Histogram(w, r, width, colorOutput(w))
		},
	}
	cmd.Flags().IntVar(&bins, "bins", 20, "number of bins")
	cmd.Flags().IntVar(&width, "width", 40, "bar width of the fullest bin")
	return cmd
}
