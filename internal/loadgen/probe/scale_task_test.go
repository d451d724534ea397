package probe

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/loadgen/internal/loadgen/configuration"
	"github.com/armadaproject/loadgen/internal/loadgen/metrics"
)

type fakeScaler struct {
	writes []int32
	err    error
}

func (f *fakeScaler) Scale(ctx context.Context, namespace, name string, replicas int32) error {
	f.writes = append(f.writes, replicas)
	return f.err
}

var scalerConfig = configuration.ScalerConfiguration{
	Name:            "querier",
	Namespace:       "monitoring",
	IntervalSeconds: 60,
	Low:             1,
	High:            5,
}

func TestScaleTask_AlternatesLowAndHigh(t *testing.T) {
	scaler := &fakeScaler{}
	registry, reg := registerForTest(t, metrics.NewRegistry("loadgen"))
	scaleTask := NewScaleTask(scalerConfig, scaler, registry)

	for i := 0; i < 4; i++ {
		require.NoError(t, scaleTask.Execute(context.Background()))
	}

	assert.Equal(t, []int32{1, 5, 1, 5}, scaler.writes)
	assert.Equal(t, "scaler/querier", scaleTask.Name())
	assert.Equal(t, 4.0, metricValue(t, reg, "loadgen_scale_operations_total", map[string]string{"result": metrics.ScaleSucceeded}))
	assert.Equal(t, 5.0, metricValue(t, reg, "loadgen_deployment_replicas", map[string]string{"deployment": "querier"}))
}

func TestScaleTask_FailuresAreCountedNotReturned(t *testing.T) {
	scaler := &fakeScaler{err: fmt.Errorf("deployments.apps \"querier\" not found")}
	registry, reg := registerForTest(t, metrics.NewRegistry("loadgen"))
	scaleTask := NewScaleTask(scalerConfig, scaler, registry)

	require.NoError(t, scaleTask.Execute(context.Background()))
	require.NoError(t, scaleTask.Execute(context.Background()))

	assert.Equal(t, []int32{1, 5}, scaler.writes)
	assert.Equal(t, 2.0, metricValue(t, reg, "loadgen_scale_operations_total", map[string]string{"result": metrics.ScaleFailed}))
	assert.Equal(t, 0.0, metricValue(t, reg, "loadgen_scale_operations_total", map[string]string{"result": metrics.ScaleSucceeded}))
}

func TestScaleTask_CancelledContext(t *testing.T) {
	scaler := &fakeScaler{}
	scaleTask := NewScaleTask(scalerConfig, scaler, metrics.NewRegistry("loadgen"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, scaleTask.Execute(ctx), context.Canceled)
}
