package supervisor

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Status is the lifecycle state of a work unit.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusTimedOut  Status = "timed_out"
)

// Terminal reports whether the status is one of the three final states.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusTimedOut
}

// Outcome is the write-once result of a work unit.
type Outcome struct {
	Status  Status
	Value   interface{}
	Err     error
	Elapsed time.Duration
}

// Work is the function a unit executes. It must honour ctx cancellation to
// make the supervisor's deadline effective.
type Work func(ctx context.Context) (interface{}, error)

// WorkUnit is a named, supervised unit of concurrent work. Its outcome slot
// is owned by the unit until a terminal state is reached; afterwards the
// result is handed off to the caller of AwaitAll.
type WorkUnit struct {
	name string
	done chan struct{}

	mu      sync.Mutex
	outcome Outcome
}

// Name returns the unit's name.
func (u *WorkUnit) Name() string {
	return u.name
}

// Outcome returns the current outcome snapshot.
func (u *WorkUnit) Outcome() Outcome {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.outcome
}

// finish records a terminal outcome exactly once. Later attempts are
// discarded, so a unit that completes after its deadline keeps the timed out
// verdict and its late result is thrown away.
func (u *WorkUnit) finish(status Status, value interface{}, err error, elapsed time.Duration) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.outcome.Status.Terminal() {
		return false
	}
	u.outcome = Outcome{Status: status, Value: value, Err: err, Elapsed: elapsed}
	return true
}

func (u *WorkUnit) markRunning() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.outcome.Status == StatusPending {
		u.outcome.Status = StatusRunning
	}
}

// Supervisor launches submitted work units on their own goroutines and joins
// them under a single shared deadline. Cancellation is cooperative: a timed
// out unit receives context cancellation, but the underlying operation may
// still run to completion in the background; its result is discarded and any
// external side effects may still land.
type Supervisor struct {
	logger hclog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	units []*WorkUnit
}

// New creates a supervisor whose units inherit cancellation from ctx.
func New(ctx context.Context, logger hclog.Logger) *Supervisor {
	runCtx, cancel := context.WithCancel(ctx)
	return &Supervisor{
		logger: logger,
		ctx:    runCtx,
		cancel: cancel,
	}
}

// Submit registers a unit and starts it immediately on its own goroutine.
// All submitted units run before any of them is awaited.
func (s *Supervisor) Submit(name string, work Work) *WorkUnit {
	unit := &WorkUnit{
		name:    name,
		done:    make(chan struct{}),
		outcome: Outcome{Status: StatusPending},
	}
	s.mu.Lock()
	s.units = append(s.units, unit)
	s.mu.Unlock()

	go func() {
		defer close(unit.done)
		unit.markRunning()
		start := time.Now()
		value, err := work(s.ctx)
		elapsed := time.Since(start)
		if err != nil {
			if unit.finish(StatusFailed, nil, err, elapsed) {
				s.logger.Debug("work unit failed", "unit", name, "elapsed", elapsed, "error", err)
			}
			return
		}
		if unit.finish(StatusCompleted, value, nil, elapsed) {
			s.logger.Debug("work unit completed", "unit", name, "elapsed", elapsed)
		} else {
			s.logger.Warn("work unit finished after its deadline, result discarded", "unit", name, "elapsed", elapsed)
		}
	}()

	return unit
}

// AwaitAll blocks until every submitted unit reaches a terminal state or the
// timeout elapses, whichever comes first. On timeout, units still running are
// marked TimedOut and receive a best-effort cancellation signal. Units that
// failed early do not shorten the wait for the rest.
func (s *Supervisor) AwaitAll(timeout time.Duration) map[string]Outcome {
	s.mu.Lock()
	units := make([]*WorkUnit, len(s.units))
	copy(units, s.units)
	s.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	defer s.cancel()

	start := time.Now()
	for _, unit := range units {
		select {
		case <-unit.done:
		case <-timer.C:
			s.expire(units, time.Since(start))
			return s.collect(units)
		}
	}
	return s.collect(units)
}

// expire marks every unit that has no terminal outcome yet as TimedOut and
// signals cancellation to the run context.
func (s *Supervisor) expire(units []*WorkUnit, elapsed time.Duration) {
	s.cancel()
	for _, unit := range units {
		if unit.finish(StatusTimedOut, nil, nil, elapsed) {
			s.logger.Warn("work unit timed out", "unit", unit.name, "deadline", elapsed)
		}
	}
}

func (s *Supervisor) collect(units []*WorkUnit) map[string]Outcome {
	outcomes := make(map[string]Outcome, len(units))
	for _, unit := range units {
		outcomes[unit.name] = unit.Outcome()
	}
	return outcomes
}
