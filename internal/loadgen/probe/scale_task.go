package probe

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/loadgen/internal/loadgen/configuration"
	"github.com/armadaproject/loadgen/internal/loadgen/metrics"
)

// DeploymentScaler writes the replica count of a single deployment.
type DeploymentScaler interface {
	Scale(ctx context.Context, namespace, name string, replicas int32) error
}

// ScaleTask alternates a deployment between its low and high replica counts, one phase per cycle starting with low.
type ScaleTask struct {
	config   configuration.ScalerConfiguration
	scaler   DeploymentScaler
	registry *metrics.Registry
	phase    int
	log      *log.Entry
}

func NewScaleTask(config configuration.ScalerConfiguration, scaler DeploymentScaler, registry *metrics.Registry) *ScaleTask {
	return &ScaleTask{
		config:   config,
		scaler:   scaler,
		registry: registry,
		log:      log.WithField("deployment", config.Name).WithField("namespace", config.Namespace),
	}
}

func (t *ScaleTask) Name() string {
	return fmt.Sprintf("scaler/%s", t.config.Name)
}

// Execute writes the replica count for the current phase. Write failures are logged and counted but never returned,
// so the task only stops when ctx is cancelled.
func (t *ScaleTask) Execute(ctx context.Context) error {
	replicas := t.config.Low
	if t.phase%2 == 1 {
		replicas = t.config.High
	}
	t.phase++

	t.log.Infof("Scaling deployment %s to %d", t.config.Name, replicas)
	err := t.scaler.Scale(ctx, t.config.Namespace, t.config.Name, replicas)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	t.registry.ObserveScale(t.config.Name, replicas, err)
	if err != nil {
		t.log.WithError(err).Errorf("Failed to scale deployment %s to %d", t.config.Name, replicas)
	}
	return nil
}
