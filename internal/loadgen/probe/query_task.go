package probe

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/armadaproject/loadgen/internal/loadgen/configuration"
	"github.com/armadaproject/loadgen/internal/loadgen/metrics"
)

// QuerySpec is a single expression together with the timing of the group it belongs to.
type QuerySpec struct {
	Expr  string
	Type  string
	Start time.Duration
	End   time.Duration
	Step  string
}

func QuerySpecsForGroup(group configuration.QueryGroupConfig) []QuerySpec {
	specs := make([]QuerySpec, 0, len(group.Queries))
	for _, q := range group.Queries {
		specs = append(specs, QuerySpec{
			Expr:  q.Expr,
			Type:  group.QueryType(),
			Start: group.Start,
			End:   group.End,
			Step:  group.Step,
		})
	}
	return specs
}

// Request builds the request evaluated relative to at. pinned marks at as a fixed block time rather than now.
func (q QuerySpec) Request(at time.Time, pinned bool) QueryRequest {
	req := QueryRequest{Expr: q.Expr, Type: q.Type}
	if q.Type == configuration.RangeQuery {
		req.Start = at.Add(-q.Start)
		req.End = at.Add(-q.End)
		req.Step = q.Step
	} else if pinned {
		req.Time = at
	}
	return req
}

// QueryTask runs every query of one group against one target, sequentially, once per cycle.
type QueryTask struct {
	target    string
	group     string
	queries   []QuerySpec
	transport QueryTransport
	registry  *metrics.Registry
	guard     *FailureGuard
	clock     clock.PassiveClock
	timeout   time.Duration
	blockTime *time.Time
	log       *log.Entry
}

func NewQueryTask(
	target string,
	group configuration.QueryGroupConfig,
	transport QueryTransport,
	registry *metrics.Registry,
	guard *FailureGuard,
	clock clock.PassiveClock,
	timeout time.Duration,
) *QueryTask {
	return &QueryTask{
		target:    target,
		group:     group.Name,
		queries:   QuerySpecsForGroup(group),
		transport: transport,
		registry:  registry,
		guard:     guard,
		clock:     clock,
		timeout:   timeout,
		log:       log.WithField("target", target).WithField("group", group.Name),
	}
}

// WithBlockTime makes every cycle additionally query each expression pinned to blockTime.
func (t *QueryTask) WithBlockTime(blockTime time.Time) *QueryTask {
	t.blockTime = &blockTime
	return t
}

func (t *QueryTask) Name() string {
	return fmt.Sprintf("%s/%s", t.target, t.group)
}

func (t *QueryTask) Guard() *FailureGuard {
	return t.guard
}

// Execute runs one cycle. It returns a *ThresholdBreachError when the guard trips, or ctx.Err() if ctx is cancelled
// mid cycle; per-query failures are recorded and otherwise absorbed.
func (t *QueryTask) Execute(ctx context.Context) error {
	for _, query := range t.queries {
		if err := t.probe(ctx, query, t.clock.Now(), false); err != nil {
			return err
		}
		if t.blockTime != nil {
			if err := t.probe(ctx, query, *t.blockTime, true); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *QueryTask) probe(ctx context.Context, query QuerySpec, at time.Time, pinned bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	req := query.Request(at, pinned)

	probeCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	start := t.clock.Now()
	resp, err := t.transport.Query(probeCtx, req)
	duration := t.clock.Since(start)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	outcome := Classify(resp.StatusCode, err)
	labels := metrics.QueryLabels{Target: t.target, Group: t.group, Expr: query.Expr, Type: query.Type}
	t.registry.ObserveQuery(labels, outcome.Kind.String(), err == nil, duration)

	logger := t.log.WithField("pinned", pinned).WithField("outcome", outcome.Kind.String())
	line := fmt.Sprintf("query %s %s, status=%d, size=%d, duration=%.3f", t.target, query.Expr, resp.StatusCode, resp.Size, duration.Seconds())
	switch outcome.Kind {
	case Success:
		logger.Info(line)
	case TransportError:
		logger.WithError(err).Warn(line)
	default:
		logger.Warn(line)
	}

	guardErr := t.guard.Observe(outcome)
	t.registry.SetConsecutiveFailures(t.target, t.group, t.guard.Count())
	return guardErr
}
