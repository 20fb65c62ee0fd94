// Package scheduler runs the weekly reset check on a fixed polling interval
// for the lifetime of the process.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/jack22dx/seed/internal/logger"
	"github.com/jack22dx/seed/internal/ops"
)

// DefaultInterval is the polling period used when none is configured.
const DefaultInterval = time.Minute

// Resetter performs one idempotent weekly reset check.
type Resetter interface {
	ResetIfDue(ctx context.Context, now time.Time) (*ops.ResetOutput, error)
}

// Scheduler polls a Resetter. Ticks may be missed or repeated; the resetter's
// week guard makes either harmless.
type Scheduler struct {
	resetter Resetter
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithClock replaces time.Now as the tick time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New returns a stopped scheduler. A non-positive interval means DefaultInterval.
func New(r Resetter, interval time.Duration, opts ...Option) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Scheduler{resetter: r, interval: interval, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval returns the polling period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start checks once immediately, then every Interval until Stop is called or
// ctx is done. Starting a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})

	logger.Info("weekly reset scheduler started", "interval", s.interval)

	s.wg.Add(1)
	go s.loop(ctx, s.stop)
}

// Stop halts the timer and waits for the loop to exit. A reset pass already
// running finishes first.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	s.mu.Unlock()

	s.wg.Wait()
	logger.Info("weekly reset scheduler stopped")
}

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) loop(ctx context.Context, stop <-chan struct{}) {
	defer s.wg.Done()

	s.Tick(ctx, s.now())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			s.Tick(ctx, s.now())
		}
	}
}

// Tick runs one reset check at now. Cancelling ctx does not interrupt a
// pass that has started. Errors are logged and returned; the next tick
// retries.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) (*ops.ResetOutput, error) {
	out, err := s.resetter.ResetIfDue(context.WithoutCancel(ctx), now)
	if err != nil {
		logger.Error("weekly reset check failed", "error", err)
		return nil, err
	}
	if out.Reset {
		logger.Debug("weekly reset applied", "week", out.Week)
	}
	return out, nil
}
