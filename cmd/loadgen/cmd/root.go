package cmd

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/armadaproject/loadgen/internal/common"
	"github.com/armadaproject/loadgen/internal/common/app"
	"github.com/armadaproject/loadgen/internal/loadgen"
	"github.com/armadaproject/loadgen/internal/loadgen/configuration"
	"github.com/armadaproject/loadgen/internal/loadgen/probe"
)

const (
	defaultConfigPath = "./config/loadgen"
	envPrefix         = "LOADGEN"
)

var (
	configFiles      []string
	bucketConfigPath string
)

func init() {
	addConfigFlags(rootCmd.PersistentFlags())
}

func addConfigFlags(flags *pflag.FlagSet) {
	flags.StringSliceVar(&configFiles, "config", []string{}, "Config files merged over "+defaultConfigPath+"/config.yaml, in order")
}

func addBucketConfigFlag(flags *pflag.FlagSet) {
	flags.StringVar(&bucketConfigPath, "bucket-config", "", "Optional yaml file {path, minTime, maxTime} of a downloaded block to also query")
}

var rootCmd = &cobra.Command{
	Use:   "loadgen",
	Short: "Generate query load against prometheus compatible apis and scale a deployment up and down",
	Long: `
Generate synthetic load for benchmarking a metrics backend.

The querier runs every configured query group against every target at the group interval and exports
query counts and latencies on /metrics. The scaler alternates a deployment between a low and high replica
count. A target that keeps returning 404 or cannot be reached stops the process with a non-zero exit code.

Configuration is read from ./config/loadgen/config.yaml, then from each --config file, then from LOADGEN_
prefixed environment variables. Example:

metricsPort: 8080
querier:
  targets:
    - name: pr
      url: http://${DOMAIN_NAME}/${PR_NUMBER}/prometheus-pr/api/v1
  groups:
    - name: simple
      interval: 15s
      queries:
        - expr: up
scaler:
  name: prometheus-test
  namespace: default
  intervalSeconds: 300
  low: 1
  high: 5
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the selected command and exits non-zero on any failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var breach *probe.ThresholdBreachError
		if errors.As(err, &breach) {
			log.WithField("target", breach.Target).WithField("group", breach.Group).Fatal(err)
		}
		log.Error(err)
		os.Exit(1)
	}
}

// runLoadgen loads and validates the configuration, then runs the tasks selected by modeFor until interrupted.
func runLoadgen(modeFor func(configuration.LoadgenConfiguration) loadgen.Mode) error {
	config := configuration.Default()
	if _, err := common.LoadConfig(&config, defaultConfigPath, configFiles, envPrefix); err != nil {
		return err
	}
	if err := common.ConfigureLogging(config.Logging.Level, config.Logging.Format); err != nil {
		return err
	}
	if err := configuration.ValidateLoadgenConfiguration(config); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return loadgen.StartUp(app.CreateContextWithShutdown(), config, modeFor(config), bucketConfigPath)
}
