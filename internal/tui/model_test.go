package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joeycumines/buckets/internal/scoreboard"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// heldScheduler captures the tick func so tests can fire it by hand.
type heldScheduler struct {
	mu sync.Mutex
	fn func()
}

func (s *heldScheduler) Every(_ time.Duration, fn func()) func() {
	s.mu.Lock()
	s.fn = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.fn = nil
		s.mu.Unlock()
	}
}

func (s *heldScheduler) fire() {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

type failingExecutor struct{}

func (failingExecutor) Do(func()) error { return errors.New("loop stopped") }

func newTestModel(t *testing.T, opts ...scoreboard.GameOption) (Model, *heldScheduler) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
	sched := &heldScheduler{}
	opts = append(opts, scoreboard.WithTimerOptions(scoreboard.WithScheduler(sched)))
	game := scoreboard.NewGame(opts...)
	return New(game, Options{TeamA: "Home", TeamB: "Away", Points: []int{1, 2, 3}}), sched
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return nm, cmd
}

// drain feeds every queued change event back into the model.
func drain(t *testing.T, m Model) Model {
	t.Helper()
	for {
		select {
		case ev := <-m.events:
			m, _ = update(t, m, changeMsg(ev))
		default:
			return m
		}
	}
}

func TestScoreKeysAddPointsAndAnimate(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := update(t, m, runes("2"))
	assert.Nil(t, cmd)
	m, _ = update(t, m, runes("0"))

	st := m.game.Status()
	assert.Equal(t, scoreboard.Snapshot{A: 2, B: 3}, st.Score)

	msg := waitForEvent(m.events)()
	require.Equal(t, changeMsg{Team: scoreboard.TeamA, Direction: scoreboard.Up}, msg)
	m, cmd = update(t, m, msg)
	require.NotNil(t, cmd)
	assert.Equal(t, scoreboard.Up, m.pops[scoreboard.TeamA].dir)
	assert.NotContains(t, m.pops, scoreboard.TeamB)
	assert.True(t, m.flashing)

	m = drain(t, m)
	assert.Equal(t, scoreboard.Up, m.pops[scoreboard.TeamB].dir)
}

func TestPopExpiryIgnoresStaleSequence(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, runes("1"))
	m = drain(t, m)
	first := m.pops[scoreboard.TeamA].seq
	firstFlash := m.flashSeq

	m, _ = update(t, m, runes("1"))
	m = drain(t, m)
	require.NotEqual(t, first, m.pops[scoreboard.TeamA].seq)

	m, _ = update(t, m, popExpiredMsg{team: scoreboard.TeamA, seq: first})
	assert.Contains(t, m.pops, scoreboard.TeamA, "stale expiry must not clear a restarted pop")
	m, _ = update(t, m, flashExpiredMsg{seq: firstFlash})
	assert.True(t, m.flashing)

	m, _ = update(t, m, popExpiredMsg{team: scoreboard.TeamA, seq: m.pops[scoreboard.TeamA].seq})
	assert.NotContains(t, m.pops, scoreboard.TeamA)
	m, _ = update(t, m, flashExpiredMsg{seq: m.flashSeq})
	assert.False(t, m.flashing)
}

func TestUndo(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := update(t, m, runes("u"))
	assert.Nil(t, cmd, "undo with nothing to undo does nothing")
	assert.Empty(t, m.pops)
	assert.NotContains(t, m.View(), "undo", "undo hint hidden when unavailable")

	m, _ = update(t, m, runes("9"))
	m = drain(t, m)
	m, _ = update(t, m, popExpiredMsg{team: scoreboard.TeamB, seq: m.pops[scoreboard.TeamB].seq})
	assert.Contains(t, m.View(), "undo")

	m, cmd = update(t, m, runes("u"))
	require.NotNil(t, cmd)
	assert.Equal(t, scoreboard.Snapshot{}, m.game.Status().Score)
	assert.Equal(t, scoreboard.Down, m.pops[scoreboard.TeamB].dir)
	assert.NotContains(t, m.pops, scoreboard.TeamA)
	assert.True(t, m.flashing)
}

func TestTimerKeyAndTicks(t *testing.T) {
	m, sched := newTestModel(t)

	assert.Contains(t, m.View(), "▶ 00:00")

	m, _ = update(t, m, runes("t"))
	assert.Equal(t, scoreboard.Running, m.game.Status().Timer)

	sched.fire()
	msg := waitForTick(m.ticks)()
	assert.Equal(t, tickMsg(1), msg)
	m, cmd := update(t, m, msg)
	assert.NotNil(t, cmd, "tick handling re-arms the tick wait")
	assert.Contains(t, m.View(), "⏸ 00:01")

	m, _ = update(t, m, runes("t"))
	assert.Equal(t, scoreboard.Stopped, m.game.Status().Timer)
	assert.Contains(t, m.View(), "▶ 00:01")
}

func TestNewGameConfirm(t *testing.T) {
	m, sched := newTestModel(t)

	m, _ = update(t, m, runes("3"))
	m, _ = update(t, m, runes("t"))
	sched.fire()
	m = drain(t, m)
	m.pops = map[scoreboard.Team]pop{}

	m, _ = update(t, m, runes("n"))
	require.True(t, m.game.Gate().Pending())
	view := m.View()
	assert.Contains(t, view, "Start a new game? All current scores will be lost. (y/n)")
	assert.Contains(t, view, "yes")

	m, _ = update(t, m, runes("1"))
	assert.Equal(t, 3, m.game.Status().Score.A, "score keys are ignored while confirming")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	st := m.game.Status()
	assert.Equal(t, scoreboard.Snapshot{}, st.Score)
	assert.Equal(t, 0, st.Elapsed)
	assert.Equal(t, scoreboard.Stopped, st.Timer)
	assert.Equal(t, scoreboard.Idle, st.Gate)
	assert.Equal(t, scoreboard.Down, m.pops[scoreboard.TeamA].dir)
	assert.Contains(t, m.View(), "No score yet")
}

func TestNewGameCancel(t *testing.T) {
	for _, k := range []tea.KeyMsg{runes("n"), {Type: tea.KeyEsc}} {
		t.Run(k.String(), func(t *testing.T) {
			m, _ := newTestModel(t)
			m, _ = update(t, m, runes("2"))
			m, _ = update(t, m, runes("n"))
			require.True(t, m.game.Gate().Pending())

			m, _ = update(t, m, k)
			assert.False(t, m.game.Gate().Pending())
			assert.Equal(t, 2, m.game.Status().Score.A)
			assert.NotContains(t, m.View(), "Start a new game?")
		})
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Equal(t, "", m.View())
}

func TestView(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	for _, want := range []string{"Buckets Scoreboard", "Home", "Away", "No score yet", "00:00"} {
		assert.Contains(t, view, want)
	}

	m, _ = update(t, m, runes("9"))
	m = drain(t, m)
	view = m.View()
	assert.Contains(t, view, "Last Scorer: Away scored (+2)")
	assert.Contains(t, view, "▲")
}

func TestViewShowsExecutorError(t *testing.T) {
	m, _ := newTestModel(t, scoreboard.WithExecutor(failingExecutor{}))
	m, _ = update(t, m, runes("1"))
	assert.Contains(t, m.View(), "Error: loop stopped")
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	assert.NotContains(t, m.View(), "A +3")
	m, _ = update(t, m, runes("?"))
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "A +3")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{in: "Home", width: 8, want: "Home"},
		{in: "Exactly8", width: 8, want: "Exactly8"},
		{in: "Supercalifragilistic", width: 8, want: "Superca…"},
		{in: "日本語チーム", width: 7, want: "日本語…"},
		{in: "", width: 4, want: ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if w := lipgloss.Width(truncate(tt.in, tt.width)); w > tt.width {
			t.Errorf("truncate(%q, %d) is %d cells wide", tt.in, tt.width, w)
		}
	}
}

func TestKeyMapLimitsPointButtons(t *testing.T) {
	km := newKeyMap([]int{1, 2, 3, 4})
	if len(km.ScoreA) != 3 || len(km.ScoreB) != 3 {
		t.Fatalf("got %d/%d score bindings, want 3/3", len(km.ScoreA), len(km.ScoreB))
	}
	if !strings.Contains(km.ScoreB[1].Help().Desc, "+2") {
		t.Errorf("unexpected help %q", km.ScoreB[1].Help().Desc)
	}
}
