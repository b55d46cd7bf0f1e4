package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/haricheung/magsample/internal/catalog"
	"github.com/haricheung/magsample/internal/config"
	"github.com/haricheung/magsample/internal/inspect"
	"github.com/haricheung/magsample/internal/sampler"
)

func newInspectCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Interactively query the magnetization table of the index catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := config.ReadSimulation(o.paths.Config)
			if err != nil {
				return err
			}
			if err := config.Validate(sim); err != nil {
				return err
			}
			cat, err := catalog.LoadFile(o.paths.Index, sim.CatalogLen())
			if err != nil {
				return err
			}
			table, err := sampler.Stratify(cat, sim.Sites())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows over %d values, type 'help' for commands\n", table.Total(), table.Len())

			cfg := &readline.Config{
				Prompt:          "magsample> ",
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
			}
			if home, err := os.UserHomeDir(); err == nil {
				cfg.HistoryFile = filepath.Join(home, ".cache", "magsample", "inspect_history")
				_ = os.MkdirAll(filepath.Dir(cfg.HistoryFile), 0o755)
			}
			return inspect.Run(table, cfg)
		},
	}
}
