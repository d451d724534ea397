package probe

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// ThresholdBreachError is returned once a target has been unreachable for threshold consecutive probes.
type ThresholdBreachError struct {
	Target    string
	Group     string
	Threshold int64
	Last      Outcome
}

func (e *ThresholdBreachError) Error() string {
	return fmt.Sprintf("target %s (group %s) unreachable for %d consecutive queries, last outcome: %s",
		e.Target, e.Group, e.Threshold, e.Last)
}

// FailureGuard counts consecutive unreachable outcomes for one target and group. Observe is only called from the
// owning task; the count is atomic so health checks may read it concurrently.
type FailureGuard struct {
	target    string
	group     string
	threshold int64
	count     *atomic.Int64
}

func NewFailureGuard(target, group string, threshold int) *FailureGuard {
	return &FailureGuard{
		target:    target,
		group:     group,
		threshold: int64(threshold),
		count:     atomic.NewInt64(0),
	}
}

// Observe records outcome and returns a *ThresholdBreachError when the threshold has been reached.
func (g *FailureGuard) Observe(outcome Outcome) error {
	if !outcome.Unreachable() {
		g.count.Store(0)
		return nil
	}
	count := g.count.Inc()
	logger := log.WithField("target", g.target).WithField("group", g.group)
	if count >= g.threshold {
		logger.Errorf("Target returned %s %d times in a row", outcome.Kind, count)
		return &ThresholdBreachError{
			Target:    g.target,
			Group:     g.group,
			Threshold: g.threshold,
			Last:      outcome,
		}
	}
	logger.Warnf("Target unreachable (%d/%d): %s", count, g.threshold, outcome)
	return nil
}

func (g *FailureGuard) Count() int64 {
	return g.count.Load()
}

// Check fails once half of the threshold has been used up.
func (g *FailureGuard) Check() error {
	count := g.count.Load()
	if count*2 >= g.threshold && count > 0 {
		return fmt.Errorf("target %s (group %s) unreachable for %d/%d consecutive queries", g.target, g.group, count, g.threshold)
	}
	return nil
}
