package cmd

import (
	"github.com/spf13/cobra"

	"github.com/armadaproject/loadgen/internal/loadgen"
	"github.com/armadaproject/loadgen/internal/loadgen/configuration"
)

func init() {
	rootCmd.AddCommand(runCmd)
	addBucketConfigFlag(runCmd.Flags())
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the querier and, if a deployment is configured, the scaler",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoadgen(func(config configuration.LoadgenConfiguration) loadgen.Mode {
			return loadgen.Mode{
				Querier: len(config.Querier.Targets) > 0,
				Scaler:  config.Scaler.Enabled(),
			}
		})
	},
}
