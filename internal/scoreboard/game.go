package scoreboard

import (
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Executor runs fn to completion, serialized with every other fn it runs.
type Executor interface {
	Do(fn func()) error
}

// inline runs fn on the calling goroutine.
type inline struct{}

func (inline) Do(fn func()) error {
	fn()
	return nil
}

// Status is a point-in-time view of a game for rendering.
type Status struct {
	ID         string
	Score      Snapshot
	CanUndo    bool
	LastScorer *Scorer
	Elapsed    int
	Clock      string
	Timer      TimerState
	Gate       GateState
}

// Game bundles the session, timer and new-game gate of one scoreboard,
// and logs every transition.
type Game struct {
	session *Session
	timer   *Timer
	gate    *NewGameGate
	exec    Executor
	logger  *slog.Logger

	idMu sync.Mutex
	id   string
}

// GameOption configures a Game.
type GameOption func(*gameOptions)

type gameOptions struct {
	exec      Executor
	logger    *slog.Logger
	timerOpts []TimerOption
}

// WithExecutor serializes every Game operation through exec.
func WithExecutor(exec Executor) GameOption {
	return func(o *gameOptions) {
		o.exec = exec
	}
}

// WithLogger sets the logger. A nil logger discards.
func WithLogger(logger *slog.Logger) GameOption {
	return func(o *gameOptions) {
		o.logger = logger
	}
}

// WithTimerOptions passes options through to the game's Timer.
func WithTimerOptions(opts ...TimerOption) GameOption {
	return func(o *gameOptions) {
		o.timerOpts = append(o.timerOpts, opts...)
	}
}

// NewGame creates a fresh game with a new session id.
func NewGame(opts ...GameOption) *Game {
	var o gameOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.exec == nil {
		o.exec = inline{}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	g := &Game{
		session: NewSession(),
		timer:   NewTimer(o.timerOpts...),
		exec:    o.exec,
		id:      uuid.NewString(),
	}
	g.gate = NewNewGameGate(g.session, g.timer)
	g.logger = o.logger.With(slog.String("component", "scoreboard"))
	g.logger.Info("game started", slog.String("game", g.id))

	g.gate.OnReset(func() {
		g.idMu.Lock()
		g.id = uuid.NewString()
		id := g.id
		g.idMu.Unlock()
		g.logger.Info("new game", slog.String("game", id))
	})
	return g
}

// ID returns the current session id. It changes on every confirmed reset.
func (g *Game) ID() string {
	g.idMu.Lock()
	defer g.idMu.Unlock()
	return g.id
}

// Session returns the score session.
func (g *Game) Session() *Session { return g.session }

// Timer returns the session timer.
func (g *Game) Timer() *Timer { return g.timer }

// Gate returns the new-game gate.
func (g *Game) Gate() *NewGameGate { return g.gate }

// AddPoints adds points to team.
func (g *Game) AddPoints(team Team, points int) error {
	var err error
	if execErr := g.exec.Do(func() {
		err = g.session.AddPoints(team, points)
	}); execErr != nil {
		return execErr
	}
	if err != nil {
		g.logger.Warn("rejected score", slog.String("team", team.String()), slog.Int("points", points), slog.Any("error", err))
		return err
	}
	cur := g.session.Current()
	g.logger.Debug("score", slog.String("team", team.String()), slog.Int("points", points),
		slog.Int("a", cur.A), slog.Int("b", cur.B))
	return nil
}

// Undo reverts the last scoring action. It reports whether anything was
// undone.
func (g *Game) Undo() (bool, error) {
	var undone bool
	if err := g.exec.Do(func() { undone = g.session.Undo() }); err != nil {
		return false, err
	}
	if undone {
		cur := g.session.Current()
		g.logger.Debug("undo", slog.Int("a", cur.A), slog.Int("b", cur.B))
	}
	return undone, nil
}

// ToggleTimer starts or stops the timer.
func (g *Game) ToggleTimer() (TimerState, error) {
	var state TimerState
	if err := g.exec.Do(func() { state = g.timer.Toggle() }); err != nil {
		return 0, err
	}
	g.logger.Debug("timer", slog.String("state", state.String()), slog.Int("elapsed", g.timer.Elapsed()))
	return state, nil
}

// RequestNewGame asks for confirmation before a reset.
func (g *Game) RequestNewGame() error {
	return g.exec.Do(g.gate.RequestReset)
}

// ConfirmNewGame resets the score and timer if a reset was requested.
func (g *Game) ConfirmNewGame() (bool, error) {
	var ok bool
	if err := g.exec.Do(func() { ok = g.gate.Confirm() }); err != nil {
		return false, err
	}
	return ok, nil
}

// CancelNewGame abandons a requested reset.
func (g *Game) CancelNewGame() error {
	return g.exec.Do(g.gate.Cancel)
}

// Status returns a consistent view of the whole game.
func (g *Game) Status() Status {
	var st Status
	read := func() {
		st = Status{
			ID:      g.ID(),
			Score:   g.session.Current(),
			CanUndo: g.session.CanUndo(),
			Elapsed: g.timer.Elapsed(),
			Timer:   g.timer.State(),
			Gate:    g.gate.State(),
		}
		if s, ok := g.session.LastScorer(); ok {
			st.LastScorer = &s
		}
	}
	if err := g.exec.Do(read); err != nil {
		// The engine types are lock-safe on their own.
		read()
	}
	st.Clock = FormatElapsed(st.Elapsed)
	return st
}
