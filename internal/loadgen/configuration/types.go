package configuration

import (
	"time"
)

const (
	InstantQuery = "instant"
	RangeQuery   = "range"
)

type LoggingConfiguration struct {
	Level  string `validate:"omitempty,oneof=trace debug info warn warning error"`
	Format string `validate:"omitempty,oneof=text json"`
}

type TargetConfig struct {
	Name string `validate:"required"`
	// Base url of the query api, e.g. http://prometheus:9090/api/v1
	Url string `validate:"required"`
}

type QueryConfig struct {
	Expr string `validate:"required"`
}

// QueryGroupConfig describes a set of queries sharing one interval and timing mode. Start and End are offsets
// back from the evaluation time; Step is passed through to the query api untouched.
type QueryGroupConfig struct {
	Name     string `validate:"required"`
	Interval time.Duration
	Type     string `validate:"omitempty,oneof=instant range"`
	Start    time.Duration
	End      time.Duration
	Step     string
	Queries  []QueryConfig `validate:"required,min=1,dive"`
}

// QueryType returns the configured probe type, defaulting to instant.
func (g QueryGroupConfig) QueryType() string {
	if g.Type == "" {
		return InstantQuery
	}
	return g.Type
}

type QuerierConfiguration struct {
	StartupDelay     time.Duration
	Timeout          time.Duration
	FailureThreshold int                `validate:"gte=0"`
	Targets          []TargetConfig     `validate:"dive"`
	Groups           []QueryGroupConfig `validate:"dive"`
}

type ScalerConfiguration struct {
	Name            string
	Namespace       string
	IntervalSeconds int   `validate:"gte=0"`
	Low             int32 `validate:"gte=0"`
	High            int32 `validate:"gte=0"`
}

func (s ScalerConfiguration) Interval() time.Duration {
	return time.Duration(s.IntervalSeconds) * time.Second
}

func (s ScalerConfiguration) Enabled() bool {
	return s.Name != ""
}

type KubernetesConfiguration struct {
	QPS   float32 `validate:"gte=0"`
	Burst int     `validate:"gte=0"`
}

type LoadgenConfiguration struct {
	MetricsPort      uint16
	MetricsNamespace string `validate:"required"`
	Logging          LoggingConfiguration
	Kubernetes       KubernetesConfiguration
	Scaler           ScalerConfiguration
	Querier          QuerierConfiguration
}
