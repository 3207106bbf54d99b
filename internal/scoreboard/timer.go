package scoreboard

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTickInterval is the wall-clock period of one elapsed second.
const DefaultTickInterval = time.Second

// Scheduler runs fn repeatedly every d until the returned cancel func is
// called. Cancel must not block waiting for an in-flight fn, and must be
// safe to call more than once.
type Scheduler interface {
	Every(d time.Duration, fn func()) (cancel func())
}

// TimerState is the state of a Timer.
type TimerState int

const (
	Stopped TimerState = iota
	Running
)

func (s TimerState) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Timer counts elapsed seconds with play/pause semantics, independently of
// scoring. Toggle is the only transition in either direction; Reset forces
// Stopped from any state.
type Timer struct {
	mu       sync.Mutex // Protects all fields below
	sched    Scheduler
	interval time.Duration
	elapsed  int
	running  bool
	// gen identifies the current run. Ticks scheduled by an earlier run
	// carry a stale generation and are dropped.
	gen       uint64
	cancel    func()
	onTick    []func(elapsed int)
	onToggled []func(TimerState)
}

// TimerOption configures a Timer.
type TimerOption func(*Timer)

// WithScheduler sets the scheduler used to drive ticks.
func WithScheduler(s Scheduler) TimerOption {
	return func(t *Timer) {
		t.sched = s
	}
}

// WithTickInterval sets the wall-clock period between ticks. Each tick
// still advances the timer by exactly one second.
func WithTickInterval(d time.Duration) TimerOption {
	return func(t *Timer) {
		if d > 0 {
			t.interval = d
		}
	}
}

// NewTimer creates a stopped timer at zero. Without WithScheduler, a
// TickerScheduler driven by time.Ticker is used.
func NewTimer(opts ...TimerOption) *Timer {
	t := &Timer{interval: DefaultTickInterval}
	for _, opt := range opts {
		opt(t)
	}
	if t.sched == nil {
		t.sched = &TickerScheduler{}
	}
	return t
}

// Toggle starts a stopped timer or stops a running one.
func (t *Timer) Toggle() TimerState {
	t.mu.Lock()
	state := Running
	if t.running {
		t.stopLocked()
		state = Stopped
	} else {
		t.running = true
		t.gen++
		gen := t.gen
		t.cancel = t.sched.Every(t.interval, func() { t.tick(gen) })
	}
	listeners := append([]func(TimerState){}, t.onToggled...)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
	return state
}

// Reset cancels any active tick and returns the timer to zero, stopped.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.elapsed = 0
}

func (t *Timer) stopLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.running = false
	t.gen++
}

func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	if !t.running || t.gen != gen {
		t.mu.Unlock()
		return
	}
	t.elapsed++
	elapsed := t.elapsed
	listeners := append([]func(int){}, t.onTick...)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(elapsed)
	}
}

// Elapsed returns the elapsed seconds.
func (t *Timer) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

// Running reports whether the timer is running.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// State returns Running or Stopped.
func (t *Timer) State() TimerState {
	if t.Running() {
		return Running
	}
	return Stopped
}

// Format renders the elapsed time as mm:ss.
func (t *Timer) Format() string {
	return FormatElapsed(t.Elapsed())
}

// OnTick registers fn to be called with the elapsed seconds after every
// applied tick. It is called on the scheduler's goroutine.
func (t *Timer) OnTick(fn func(elapsed int)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onTick = append(t.onTick, fn)
}

// OnToggle registers fn to be called with the new state after every Toggle.
func (t *Timer) OnToggle(fn func(TimerState)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggled = append(t.onToggled, fn)
}

// FormatElapsed maps seconds to mm:ss, zero-padding both fields. Minutes
// are not wrapped into hours, so 5400 renders as "90:00".
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// TickerScheduler runs each repeat task on its own goroutine driven by a
// ticker.
type TickerScheduler struct {
	// NewTicker creates a ticker channel and its stop function.
	// If nil, time.NewTicker is used. Inject a custom implementation for
	// deterministic testing without real timers.
	NewTicker func(d time.Duration) (tick <-chan time.Time, stop func())
}

// Every implements Scheduler.
func (s *TickerScheduler) Every(d time.Duration, fn func()) func() {
	newTicker := s.NewTicker
	if newTicker == nil {
		newTicker = defaultNewTicker
	}
	ch, stopTicker := newTicker(d)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ch:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			stopTicker()
		})
	}
}

// defaultNewTicker wraps time.NewTicker to match the NewTicker signature.
func defaultNewTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}
