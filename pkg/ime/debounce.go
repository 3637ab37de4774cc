package ime

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period a TimerScheduler waits for before
// recomputing candidates.
const DefaultDebounce = 30 * time.Millisecond

// Scheduler decides when deferred engine work runs. Scheduling new work
// may supersede work that has not run yet; the engine's generation
// counter makes running superseded work harmless either way.
type Scheduler interface {
	Schedule(fn func())
	Stop()
}

// ImmediateScheduler runs work synchronously on the calling goroutine.
// The session server uses it so every response reflects the event it
// answers; tests use it for determinism.
type ImmediateScheduler struct{}

func (ImmediateScheduler) Schedule(fn func()) { fn() }
func (ImmediateScheduler) Stop()              {}

// TimerScheduler coalesces bursts of scheduled work, running only the
// most recently scheduled function once input has been quiet for the
// configured delay. This keeps candidate lookups off the keystroke path
// during fast typing.
type TimerScheduler struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewTimerScheduler creates a trailing-edge debouncer. A non-positive
// delay selects DefaultDebounce.
func NewTimerScheduler(delay time.Duration) *TimerScheduler {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &TimerScheduler{delay: delay}
}

// Schedule replaces any pending work with fn, to run after the delay.
func (s *TimerScheduler) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, fn)
}

// Stop cancels pending work. The scheduler may be reused afterwards.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
