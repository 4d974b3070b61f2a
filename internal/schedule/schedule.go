// Package schedule runs a callback on a repeating interval.
package schedule

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrInvalidInterval is returned when asked to run on a non-positive interval.
var ErrInvalidInterval = errors.New("schedule: interval must be positive")

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// Scheduler owns a single repeating timer. Start, Restart and Stop may be
// called from any goroutine; at most one timer loop exists at a time.
type Scheduler struct {
	fn  func()
	log *slog.Logger

	mu       sync.Mutex
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}

	ticks atomic.Int64
	loops atomic.Int32
}

// New returns an idle Scheduler that will call fn on every tick.
func New(fn func(), opts ...Option) *Scheduler {
	s := &Scheduler{fn: fn, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start arms the timer. On a running scheduler it behaves like Restart.
func (s *Scheduler) Start(d time.Duration) error {
	return s.Restart(d)
}

// Restart cancels the current timer, waits for its loop (and any callback
// in flight) to exit, then arms a new timer with interval d.
func (s *Scheduler) Restart(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()

	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop, s.done, s.interval = stop, done, d
	s.loops.Add(1)
	go s.loop(d, stop, done)

	s.log.Debug("schedule: armed", "interval", d)
	return nil
}

// Stop cancels the timer and waits for the loop to exit. It is safe to
// call on an idle scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelLocked() {
		s.log.Debug("schedule: stopped")
	}
}

// cancelLocked stops the running loop, if any. Callers hold s.mu.
func (s *Scheduler) cancelLocked() bool {
	if s.stop == nil {
		return false
	}
	close(s.stop)
	<-s.done
	s.stop, s.done, s.interval = nil, nil, 0
	return true
}

func (s *Scheduler) loop(d time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer s.loops.Add(-1)

	ticker := time.NewTicker(d)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// A tick and a stop can be ready together; stop wins.
			select {
			case <-stop:
				return
			default:
			}
			s.ticks.Add(1)
			s.fn()
		}
	}
}

// Running reports whether a timer is armed.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

// Interval returns the armed interval, or 0 when idle.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Ticks returns how many times the callback has been invoked.
func (s *Scheduler) Ticks() int64 {
	return s.ticks.Load()
}
