// Package eventloop provides the single-threaded loop that every scoreboard
// mutation and timer tick runs on.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/joeycumines/buckets/internal/goroutineid"
)

// ErrLoopStopped is returned when work is submitted to a closed loop.
var ErrLoopStopped = errors.New("eventloop: loop not running")

// DefaultSyncTimeout is the maximum duration Do waits for its function.
const DefaultSyncTimeout = 5 * time.Second

// Loop serializes functions onto one goroutine and schedules repeating
// tasks on it. All methods are safe for concurrent use.
//
// Usage:
//
//	loop, err := eventloop.New(ctx)
//	if err != nil { ... }
//	defer loop.Close()
//
//	game := scoreboard.NewGame(
//	    scoreboard.WithExecutor(loop),
//	    scoreboard.WithTimerOptions(scoreboard.WithScheduler(loop)),
//	)
type Loop struct {
	loop *eventloop.EventLoop

	// timeout bounds Do. Zero disables it.
	timeout time.Duration

	// goroutineID is the loop goroutine, captured once at start.
	goroutineID atomic.Int64

	mu        sync.RWMutex // Protects started, stopped and intervals
	started   bool
	stopped   bool
	intervals map[*eventloop.Interval]struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Loop.
type Option func(*Loop)

// WithSyncTimeout sets the Do timeout. Pass 0 to wait indefinitely.
func WithSyncTimeout(d time.Duration) Option {
	return func(l *Loop) {
		l.timeout = d
	}
}

// New starts a loop. It stops when ctx is cancelled or Close is called.
func New(ctx context.Context, opts ...Option) (*Loop, error) {
	childCtx, cancel := context.WithCancel(context.Background())
	l := &Loop{
		loop:    eventloop.NewEventLoop(eventloop.EnableConsole(false)),
		timeout:   DefaultSyncTimeout,
		ctx:       childCtx,
		cancel:    cancel,
		intervals: make(map[*eventloop.Interval]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}

	l.loop.Start()
	l.mu.Lock()
	l.started = true
	l.mu.Unlock()

	ready := make(chan struct{})
	if !l.loop.RunOnLoop(func(*goja.Runtime) {
		l.goroutineID.Store(goroutineid.Get())
		close(ready)
	}) {
		cancel()
		return nil, fmt.Errorf("failed to start: %w", ErrLoopStopped)
	}
	<-ready

	if ctx.Done() != nil {
		context.AfterFunc(ctx, func() {
			_ = l.Close()
		})
	}
	return l, nil
}

// Close clears every interval still registered through Every, then stops
// the loop. It is safe to call multiple times.
func (l *Loop) Close() error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return nil
	}
	l.stopped = true
	intervals := l.intervals
	l.intervals = nil
	l.mu.Unlock()

	for iv := range intervals {
		l.loop.ClearInterval(iv)
	}
	if len(intervals) > 0 && !l.OnLoop() {
		// ClearInterval is queued on the loop; wait for it before stopping
		// so no interval goroutine outlives the loop.
		done := make(chan struct{})
		if l.loop.RunOnLoop(func(*goja.Runtime) { close(done) }) {
			l.waitClosed(done)
		}
	}

	l.cancel()
	l.loop.Stop()
	return nil
}

func (l *Loop) waitClosed(done <-chan struct{}) {
	if l.timeout <= 0 {
		<-done
		return
	}
	timer := time.NewTimer(l.timeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
	}
}

// ActiveIntervals returns the number of intervals started by Every that
// have been neither cancelled nor cleared by Close.
func (l *Loop) ActiveIntervals() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.intervals)
}

// Done is closed once the loop is stopping.
func (l *Loop) Done() <-chan struct{} {
	return l.ctx.Done()
}

// IsRunning reports whether the loop accepts work.
func (l *Loop) IsRunning() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.started && !l.stopped
}

// OnLoop reports whether the caller is running on the loop goroutine.
func (l *Loop) OnLoop() bool {
	id := l.goroutineID.Load()
	return id > 0 && id == goroutineid.Get()
}

// Post queues fn without waiting. It reports false if the loop is stopped.
func (l *Loop) Post(fn func()) bool {
	if !l.IsRunning() {
		return false
	}
	return l.loop.RunOnLoop(func(*goja.Runtime) { fn() })
}

// Do runs fn on the loop and waits for it to return. Called from the loop
// goroutine itself, fn runs inline.
func (l *Loop) Do(fn func()) error {
	if !l.IsRunning() {
		return ErrLoopStopped
	}
	if l.OnLoop() {
		fn()
		return nil
	}

	done := make(chan struct{})
	if !l.loop.RunOnLoop(func(*goja.Runtime) {
		defer close(done)
		fn()
	}) {
		return ErrLoopStopped
	}

	l.mu.RLock()
	timeout := l.timeout
	l.mu.RUnlock()

	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case <-done:
			return nil
		case <-l.Done():
			return ErrLoopStopped
		case <-timer.C:
			return fmt.Errorf("eventloop: operation timed out after %v", timeout)
		}
	}

	select {
	case <-done:
		return nil
	case <-l.Done():
		return ErrLoopStopped
	}
}

// Every runs fn on the loop every d until the returned func is called.
// Cancelling from the loop goroutine guarantees no further fn runs;
// cancelling from elsewhere may race one already queued run, which callers
// must tolerate.
func (l *Loop) Every(d time.Duration, fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.started || l.stopped {
		return func() {}
	}
	interval := l.loop.SetInterval(func(*goja.Runtime) { fn() }, d)
	l.intervals[interval] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			_, live := l.intervals[interval]
			delete(l.intervals, interval)
			l.mu.Unlock()
			if live {
				l.loop.ClearInterval(interval)
			}
		})
	}
}
