package scoreboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingExecutor runs inline and counts submissions.
type countingExecutor struct {
	n   int
	err error
}

func (e *countingExecutor) Do(fn func()) error {
	e.n++
	if e.err != nil {
		return e.err
	}
	fn()
	return nil
}

func newTestGame(t *testing.T, opts ...GameOption) (*Game, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	opts = append([]GameOption{WithTimerOptions(WithScheduler(sched))}, opts...)
	return NewGame(opts...), sched
}

func TestGame_Flow(t *testing.T) {
	t.Parallel()
	g, sched := newTestGame(t)

	_, err := uuid.Parse(g.ID())
	require.NoError(t, err)

	require.NoError(t, g.AddPoints(TeamA, 2))
	require.NoError(t, g.AddPoints(TeamB, 3))
	state, err := g.ToggleTimer()
	require.NoError(t, err)
	assert.Equal(t, Running, state)
	sched.fire(65)

	st := g.Status()
	assert.Equal(t, Snapshot{A: 2, B: 3}, st.Score)
	assert.True(t, st.CanUndo)
	require.NotNil(t, st.LastScorer)
	assert.Equal(t, Scorer{Team: TeamB, Points: 3}, *st.LastScorer)
	assert.Equal(t, 65, st.Elapsed)
	assert.Equal(t, "01:05", st.Clock)
	assert.Equal(t, Running, st.Timer)
	assert.Equal(t, Idle, st.Gate)

	undone, err := g.Undo()
	require.NoError(t, err)
	assert.True(t, undone)
	st = g.Status()
	assert.Nil(t, st.LastScorer)
	assert.Equal(t, Snapshot{A: 2}, st.Score)
}

func TestGame_NewGameCycle(t *testing.T) {
	t.Parallel()
	g, sched := newTestGame(t)
	require.NoError(t, g.AddPoints(TeamA, 3))
	_, _ = g.ToggleTimer()
	sched.fire(3)
	firstID := g.ID()

	require.NoError(t, g.RequestNewGame())
	assert.Equal(t, PendingConfirmation, g.Status().Gate)
	require.NoError(t, g.CancelNewGame())
	assert.Equal(t, Snapshot{A: 3}, g.Status().Score)
	assert.Equal(t, firstID, g.ID())

	ok, err := g.ConfirmNewGame()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, g.RequestNewGame())
	ok, err = g.ConfirmNewGame()
	require.NoError(t, err)
	assert.True(t, ok)

	st := g.Status()
	assert.Equal(t, Snapshot{}, st.Score)
	assert.False(t, st.CanUndo)
	assert.Equal(t, "00:00", st.Clock)
	assert.Equal(t, Stopped, st.Timer)
	assert.Equal(t, Idle, st.Gate)
	assert.NotEqual(t, firstID, st.ID)
}

func TestGame_RoutesThroughExecutor(t *testing.T) {
	t.Parallel()
	exec := &countingExecutor{}
	g, _ := newTestGame(t, WithExecutor(exec))

	require.NoError(t, g.AddPoints(TeamA, 1))
	_, _ = g.Undo()
	_, _ = g.ToggleTimer()
	_ = g.RequestNewGame()
	_ = g.CancelNewGame()
	_, _ = g.ConfirmNewGame()
	_ = g.Status()
	assert.Equal(t, 7, exec.n)
}

func TestGame_ExecutorFailure(t *testing.T) {
	t.Parallel()
	stopped := errors.New("stopped")
	exec := &countingExecutor{err: stopped}
	g, _ := newTestGame(t, WithExecutor(exec))

	assert.ErrorIs(t, g.AddPoints(TeamA, 1), stopped)
	_, err := g.Undo()
	assert.ErrorIs(t, err, stopped)

	// Status still reads the engine directly.
	st := g.Status()
	assert.Equal(t, Snapshot{}, st.Score)
	assert.Equal(t, g.ID(), st.ID)
}

func TestGame_InvalidPointsLogsWarning(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	g, _ := newTestGame(t, WithLogger(logger))

	err := g.AddPoints(TeamA, 0)
	require.ErrorIs(t, err, ErrInvalidPoints)
	require.NoError(t, g.AddPoints(TeamB, 2))

	var msgs []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		assert.Equal(t, "scoreboard", rec["component"])
		msgs = append(msgs, rec["msg"].(string))
	}
	assert.Equal(t, []string{"game started", "rejected score", "score"}, msgs)
}
