package cmd

import (
	"github.com/spf13/cobra"

	"github.com/armadaproject/loadgen/internal/loadgen"
	"github.com/armadaproject/loadgen/internal/loadgen/configuration"
)

func init() {
	rootCmd.AddCommand(scalerCmd)
}

var scalerCmd = &cobra.Command{
	Use:   "scaler",
	Short: "Alternate the configured deployment between its low and high replica counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoadgen(func(configuration.LoadgenConfiguration) loadgen.Mode {
			return loadgen.Mode{Scaler: true}
		})
	},
}
