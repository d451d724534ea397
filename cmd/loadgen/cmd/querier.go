package cmd

import (
	"github.com/spf13/cobra"

	"github.com/armadaproject/loadgen/internal/loadgen"
	"github.com/armadaproject/loadgen/internal/loadgen/configuration"
)

func init() {
	rootCmd.AddCommand(querierCmd)
	addBucketConfigFlag(querierCmd.Flags())
}

var querierCmd = &cobra.Command{
	Use:   "querier",
	Short: "Run every query group against every target",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoadgen(func(configuration.LoadgenConfiguration) loadgen.Mode {
			return loadgen.Mode{Querier: true}
		})
	},
}
