package configuration

import "time"

const (
	DefaultMetricsPort      = 8080
	DefaultMetricsNamespace = "loadgen"
	DefaultStartupDelay     = 20 * time.Second
	DefaultQueryTimeout     = 60 * time.Second
	DefaultFailureThreshold = 30
	DefaultNamespace        = "default"
)

// Default returns a configuration pre-populated with defaults. Values read from config files are decoded on top of it.
func Default() LoadgenConfiguration {
	return LoadgenConfiguration{
		MetricsPort:      DefaultMetricsPort,
		MetricsNamespace: DefaultMetricsNamespace,
		Logging: LoggingConfiguration{
			Level:  "info",
			Format: "text",
		},
		Kubernetes: KubernetesConfiguration{
			QPS:   50,
			Burst: 100,
		},
		Scaler: ScalerConfiguration{
			Namespace: DefaultNamespace,
		},
		Querier: QuerierConfiguration{
			StartupDelay:     DefaultStartupDelay,
			Timeout:          DefaultQueryTimeout,
			FailureThreshold: DefaultFailureThreshold,
		},
	}
}
