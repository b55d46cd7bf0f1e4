package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haricheung/magsample/internal/config"
)

func newConfigCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read or write the simulation config record",
	}

	var from string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config record from defaults or a YAML file",
		Long: `Writes the binary config record the simulator and post-processing tools
read. Without --from the defaults are used; with it, fields missing from the
YAML keep their defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim := config.Default()
			if from != "" {
				data, err := os.ReadFile(config.ExpandHome(from))
				if err != nil {
					return fmt.Errorf("read %s: %w", from, err)
				}
				if sim, err = config.UnmarshalYAML(data); err != nil {
					return err
				}
			}
			if err := config.Validate(sim); err != nil {
				return err
			}
			if err := config.WriteSimulation(o.paths.Config, sim); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d catalog records)\n", o.paths.Config, sim.CatalogLen())
			return nil
		},
	}
	initCmd.Flags().StringVar(&from, "from", "", "YAML file with simulation parameters")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the config record as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := config.ReadSimulation(o.paths.Config)
			if err != nil {
				return err
			}
			data, err := config.MarshalYAML(sim)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
