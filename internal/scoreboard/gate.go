package scoreboard

import "sync"

// GateState is the state of a NewGameGate.
type GateState int

const (
	Idle GateState = iota
	PendingConfirmation
)

func (s GateState) String() string {
	if s == PendingConfirmation {
		return "pending"
	}
	return "idle"
}

// NewGameGate guards the destructive reset of a session and its timer
// behind explicit confirmation. It is the only component that touches both.
type NewGameGate struct {
	mu      sync.Mutex
	session *Session
	timer   *Timer
	pending bool
	onReset []func()
}

// NewNewGameGate creates an idle gate over session and timer.
func NewNewGameGate(session *Session, timer *Timer) *NewGameGate {
	return &NewGameGate{session: session, timer: timer}
}

// RequestReset enters the pending state without mutating anything.
// Requesting again while pending has no further effect.
func (g *NewGameGate) RequestReset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = true
}

// Confirm resets the session and the timer, then returns to Idle. It
// reports false, doing nothing, when no reset was requested.
func (g *NewGameGate) Confirm() bool {
	g.mu.Lock()
	if !g.pending {
		g.mu.Unlock()
		return false
	}
	g.session.Reset()
	g.timer.Reset()
	g.pending = false
	hooks := append([]func(){}, g.onReset...)
	g.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	return true
}

// Cancel returns to Idle without mutation.
func (g *NewGameGate) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = false
}

// Pending reports whether a reset is awaiting confirmation.
func (g *NewGameGate) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// State returns Idle or PendingConfirmation.
func (g *NewGameGate) State() GateState {
	if g.Pending() {
		return PendingConfirmation
	}
	return Idle
}

// OnReset registers fn to run after every confirmed reset.
func (g *NewGameGate) OnReset(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onReset = append(g.onReset, fn)
}
