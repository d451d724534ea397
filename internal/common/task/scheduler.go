package task

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"
)

// Task is a unit of repeated work. Execute runs a single cycle; a returned error is treated as fatal for the whole
// scheduler unless the scheduler context has already been cancelled.
type Task interface {
	Name() string
	Execute(ctx context.Context) error
}

type Policy int

const (
	// FixedRate starts cycles Interval apart. Slow cycles shrink the following sleep instead of delaying every later
	// cycle; cycles never overlap.
	FixedRate Policy = iota
	// FixedDelay always sleeps Interval between the end of one cycle and the start of the next.
	FixedDelay
)

type Schedule struct {
	Interval     time.Duration
	InitialDelay time.Duration
	Policy       Policy
}

// NextDelay returns how long to sleep after a cycle that took elapsed.
func (s Schedule) NextDelay(elapsed time.Duration) time.Duration {
	if s.Policy == FixedDelay {
		return s.Interval
	}
	wait := s.Interval - elapsed
	if wait < 0 {
		return 0
	}
	return wait
}

type CycleObserver interface {
	ObserveCycle(task string, duration time.Duration)
}

type scheduledTask struct {
	task     Task
	schedule Schedule
}

// Scheduler runs every registered task in its own goroutine. The first task to fail stops all the others and its
// error is returned from Run, leaving the decision of how to react to the caller.
type Scheduler struct {
	clock    clock.Clock
	observer CycleObserver
	tasks    []*scheduledTask
	started  *atomic.Bool
}

func NewScheduler(clock clock.Clock, observer CycleObserver) *Scheduler {
	return &Scheduler{
		clock:    clock,
		observer: observer,
		started:  atomic.NewBool(false),
	}
}

// Register adds a task. Must not be called once Run has started.
func (s *Scheduler) Register(task Task, schedule Schedule) {
	s.tasks = append(s.tasks, &scheduledTask{task: task, schedule: schedule})
}

func (s *Scheduler) TaskCount() int {
	return len(s.tasks)
}

// Check reports whether all tasks have been launched.
func (s *Scheduler) Check() error {
	if !s.started.Load() {
		return errors.New("tasks have not been started yet")
	}
	return nil
}

// Run launches all tasks, calls onStarted once every task has been launched and then blocks until a task fails or
// ctx is cancelled. A nil return means ctx was cancelled. An error from onStarted stops all tasks and is returned.
func (s *Scheduler) Run(ctx context.Context, onStarted func() error) error {
	if len(s.tasks) == 0 {
		return errors.New("no tasks registered")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range s.tasks {
		t := t
		log.WithField("task", t.task.Name()).Infof("Starting task with interval %s", t.schedule.Interval)
		g.Go(func() error {
			return s.runTask(ctx, t)
		})
	}
	s.started.Store(true)
	if onStarted != nil {
		if err := onStarted(); err != nil {
			cancel()
			_ = g.Wait()
			return err
		}
	}
	return g.Wait()
}

func (s *Scheduler) runTask(ctx context.Context, t *scheduledTask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("task %s panicked: %v", t.task.Name(), r)
		}
	}()

	if !s.sleep(ctx, t.schedule.InitialDelay) {
		return nil
	}
	for {
		start := s.clock.Now()
		if err := t.task.Execute(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		elapsed := s.clock.Since(start)
		if s.observer != nil {
			s.observer.ObserveCycle(t.task.Name(), elapsed)
		}
		if !s.sleep(ctx, t.schedule.NextDelay(elapsed)) {
			return nil
		}
	}
}

// sleep returns false if ctx was cancelled before d elapsed.
func (s *Scheduler) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := s.clock.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C():
		return true
	}
}
