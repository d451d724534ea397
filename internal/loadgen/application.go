package loadgen

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/armadaproject/loadgen/internal/common/health"
	"github.com/armadaproject/loadgen/internal/common/task"
	"github.com/armadaproject/loadgen/internal/loadgen/cluster"
	"github.com/armadaproject/loadgen/internal/loadgen/configuration"
	"github.com/armadaproject/loadgen/internal/loadgen/exporter"
	"github.com/armadaproject/loadgen/internal/loadgen/metrics"
	"github.com/armadaproject/loadgen/internal/loadgen/probe"
)

// Mode selects which tasks are run.
type Mode struct {
	Querier bool
	Scaler  bool
}

// Loadgen is a scheduler with every task registered plus the health checks derived from it.
type Loadgen struct {
	Scheduler *task.Scheduler
	Guards    []*probe.FailureGuard
	Checker   *health.MultiChecker
}

// Build registers one query task per target and group, and the scaler task if enabled. scaler may be nil when mode
// does not include the scaler.
func Build(
	config configuration.LoadgenConfiguration,
	mode Mode,
	registry *metrics.Registry,
	scaler probe.DeploymentScaler,
	bucketConfig *configuration.BucketConfig,
	clock clock.Clock,
) (*Loadgen, error) {
	scheduler := task.NewScheduler(clock, registry)
	checker := health.NewMultiChecker(health.CheckerFunc(scheduler.Check))
	var guards []*probe.FailureGuard

	if mode.Querier {
		querier := config.Querier
		for _, target := range querier.Targets {
			url := os.ExpandEnv(target.Url)
			transport, err := probe.NewHttpQueryTransport(url, nil)
			if err != nil {
				return nil, err
			}
			for _, group := range querier.Groups {
				guard := probe.NewFailureGuard(target.Name, group.Name, querier.FailureThreshold)
				queryTask := probe.NewQueryTask(target.Name, group, transport, registry, guard, clock, querier.Timeout)
				if bucketConfig != nil {
					queryTask.WithBlockTime(bucketConfig.BlockTime())
				}
				log.WithField("target", target.Name).WithField("group", group.Name).Infof("Running querier against %s", url)
				scheduler.Register(queryTask, task.Schedule{
					Interval:     group.Interval,
					InitialDelay: querier.StartupDelay,
					Policy:       task.FixedRate,
				})
				guards = append(guards, guard)
				checker.Add(guard)
			}
		}
	}

	if mode.Scaler {
		if !config.Scaler.Enabled() {
			return nil, errors.New("scaler: deployment name is required")
		}
		if scaler == nil {
			return nil, errors.New("scaler: no deployment scaler available")
		}
		scheduler.Register(probe.NewScaleTask(config.Scaler, scaler, registry), task.Schedule{
			Interval: config.Scaler.Interval(),
			Policy:   task.FixedDelay,
		})
	}

	if scheduler.TaskCount() == 0 {
		return nil, errors.New("nothing to run: no query targets and groups are configured")
	}
	return &Loadgen{Scheduler: scheduler, Guards: guards, Checker: checker}, nil
}

// StartUp wires the configured tasks against real dependencies and runs them until ctx is cancelled or a task fails.
// The metrics and health listener is started once every task has been launched.
func StartUp(ctx context.Context, config configuration.LoadgenConfiguration, mode Mode, bucketConfigPath string) error {
	registry := metrics.NewRegistry(config.MetricsNamespace)
	if err := registry.Register(prometheus.DefaultRegisterer); err != nil {
		return errors.Wrap(err, "registering metrics")
	}

	var scaler probe.DeploymentScaler
	if mode.Scaler {
		clientProvider, err := cluster.NewKubernetesClientProvider(config.Kubernetes)
		if err != nil {
			return errors.Wrap(err, "connecting to kubernetes")
		}
		scaler = cluster.NewKubernetesDeploymentScaler(clientProvider)
	}

	var bucketConfig *configuration.BucketConfig
	if mode.Querier {
		bucketConfig = configuration.LoadOptionalBucketConfig(bucketConfigPath)
	}

	app, err := Build(config, mode, registry, scaler, bucketConfig, clock.RealClock{})
	if err != nil {
		return err
	}

	metricsExporter := exporter.New(config.MetricsPort, exporter.GetMetricsGatherer(), app.Checker)
	defer metricsExporter.Shutdown()

	return app.Scheduler.Run(ctx, metricsExporter.Start)
}
