package scoreboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateFixture(t *testing.T) (*NewGameGate, *Session, *Timer, *manualScheduler) {
	t.Helper()
	s := NewSession()
	timer, sched := newManualTimer()
	require.NoError(t, s.AddPoints(TeamA, 2))
	require.NoError(t, s.AddPoints(TeamB, 3))
	timer.Toggle()
	sched.fire(7)
	return NewNewGameGate(s, timer), s, timer, sched
}

func TestNewGameGate_InitialIdle(t *testing.T) {
	t.Parallel()
	g, _, _, _ := newGateFixture(t)
	assert.Equal(t, Idle, g.State())
	assert.False(t, g.Pending())
}

func TestNewGameGate_RequestDoesNotMutate(t *testing.T) {
	t.Parallel()
	g, s, timer, _ := newGateFixture(t)

	g.RequestReset()
	assert.Equal(t, PendingConfirmation, g.State())
	assert.Equal(t, Snapshot{A: 2, B: 3}, s.Current())
	assert.Equal(t, 7, timer.Elapsed())
	assert.True(t, timer.Running())

	g.RequestReset()
	assert.True(t, g.Pending())
}

func TestNewGameGate_Cancel(t *testing.T) {
	t.Parallel()
	g, s, timer, _ := newGateFixture(t)

	g.RequestReset()
	g.Cancel()

	assert.Equal(t, Idle, g.State())
	assert.Equal(t, Snapshot{A: 2, B: 3}, s.Current())
	assert.True(t, s.CanUndo())
	assert.Equal(t, 7, timer.Elapsed())
}

func TestNewGameGate_Confirm(t *testing.T) {
	t.Parallel()
	g, s, timer, sched := newGateFixture(t)
	resets := 0
	g.OnReset(func() { resets++ })

	g.RequestReset()
	require.True(t, g.Confirm())

	assert.Equal(t, Idle, g.State())
	assert.Equal(t, Snapshot{}, s.Current())
	assert.False(t, s.CanUndo())
	_, ok := s.LastScorer()
	assert.False(t, ok)
	assert.Zero(t, timer.Elapsed())
	assert.False(t, timer.Running())
	assert.Empty(t, sched.live())
	assert.Equal(t, 1, resets)
}

func TestNewGameGate_ConfirmWhileIdleIsNoop(t *testing.T) {
	t.Parallel()
	g, s, timer, _ := newGateFixture(t)

	assert.False(t, g.Confirm())
	assert.Equal(t, Snapshot{A: 2, B: 3}, s.Current())
	assert.Equal(t, 7, timer.Elapsed())

	g.RequestReset()
	g.Cancel()
	assert.False(t, g.Confirm())
	assert.Equal(t, Snapshot{A: 2, B: 3}, s.Current())
}

func TestGateState_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", PendingConfirmation.String())
}
