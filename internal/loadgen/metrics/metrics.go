package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels attached to loadgen_query_outcomes_total.
const (
	OutcomeSuccess        = "success"
	OutcomeClientError    = "client_error"
	OutcomeServerError    = "server_error"
	OutcomeNotFound       = "not_found"
	OutcomeTransportError = "transport_error"
	OutcomeUnknown        = "unknown"
)

const (
	ScaleSucceeded = "succeeded"
	ScaleFailed    = "failed"
)

var queryLabels = []string{"target", "group", "expr", "type"}

var queryDurationBuckets = []float64{0.05, 0.1, 0.3, 0.7, 1.5, 2.5, 4, 6, 8, 10, 13, 16, 20, 24, 29, 36, 42, 50, 60}

// QueryLabels identifies the series a single query attempt is recorded against.
type QueryLabels struct {
	Target string
	Group  string
	Expr   string
	Type   string
}

func (l QueryLabels) values() []string {
	return []string{l.Target, l.Group, l.Expr, l.Type}
}

// Registry holds all loadgen collectors. It is shared by every task; the underlying vectors are safe for concurrent
// use so no additional locking is needed.
type Registry struct {
	queryCount         *prometheus.CounterVec
	queryFailCount     *prometheus.CounterVec
	queryOutcomeCount  *prometheus.CounterVec
	queryDuration      *prometheus.HistogramVec
	scaleCount         *prometheus.CounterVec
	deploymentReplicas *prometheus.GaugeVec
	taskCycleDuration  *prometheus.HistogramVec
	consecutiveFails   *prometheus.GaugeVec
}

func NewRegistry(namespace string) *Registry {
	return &Registry{
		queryCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total amount of queries",
			},
			queryLabels,
		),
		queryFailCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "failed_queries_total",
				Help:      "Amount of failed queries",
			},
			queryLabels,
		),
		queryOutcomeCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "query_outcomes_total",
				Help:      "Query attempts partitioned by classified outcome",
			},
			append(append([]string{}, queryLabels...), "outcome"),
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Query duration",
				Buckets:   queryDurationBuckets,
			},
			queryLabels,
		),
		scaleCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scale_operations_total",
				Help:      "Deployment scale operations partitioned by result",
			},
			[]string{"deployment", "result"},
		),
		deploymentReplicas: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "deployment_replicas",
				Help:      "Replica count most recently written to the scaled deployment",
			},
			[]string{"deployment"},
		),
		taskCycleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "task_cycle_duration_seconds",
				Help:      "Time spent executing one cycle of a task",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 15),
			},
			[]string{"task"},
		),
		consecutiveFails: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "consecutive_failures",
				Help:      "Consecutive unreachable outcomes observed for a target and group",
			},
			[]string{"target", "group"},
		),
	}
}

// Register attaches all collectors to the supplied registerer. Collectors that are already registered are skipped.
func (r *Registry) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		r.queryCount,
		r.queryFailCount,
		r.queryOutcomeCount,
		r.queryDuration,
		r.scaleCount,
		r.deploymentReplicas,
		r.taskCycleDuration,
		r.consecutiveFails,
	}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveQuery records one query attempt. Latency is only observed for attempts that got an http response.
func (r *Registry) ObserveQuery(l QueryLabels, outcome string, responded bool, duration time.Duration) {
	values := l.values()
	r.queryCount.WithLabelValues(values...).Inc()
	r.queryOutcomeCount.WithLabelValues(append(values, outcome)...).Inc()
	if outcome != OutcomeSuccess {
		r.queryFailCount.WithLabelValues(values...).Inc()
	}
	if responded {
		if duration < 0 {
			duration = 0
		}
		r.queryDuration.WithLabelValues(values...).Observe(duration.Seconds())
	}
}

func (r *Registry) SetConsecutiveFailures(target, group string, count int64) {
	r.consecutiveFails.WithLabelValues(target, group).Set(float64(count))
}

func (r *Registry) ObserveScale(deployment string, replicas int32, err error) {
	if err != nil {
		r.scaleCount.WithLabelValues(deployment, ScaleFailed).Inc()
		return
	}
	r.scaleCount.WithLabelValues(deployment, ScaleSucceeded).Inc()
	r.deploymentReplicas.WithLabelValues(deployment).Set(float64(replicas))
}

// ObserveCycle satisfies task.CycleObserver.
func (r *Registry) ObserveCycle(task string, duration time.Duration) {
	r.taskCycleDuration.WithLabelValues(task).Observe(duration.Seconds())
}
