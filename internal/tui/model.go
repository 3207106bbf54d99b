// Package tui is the terminal presentation layer of the scoreboard. It
// forwards key presses to a scoreboard.Game and renders its status, and
// owns all feedback timing (score pop, border flash).
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joeycumines/buckets/internal/scoreboard"
)

const (
	popDuration   = 500 * time.Millisecond
	flashDuration = 600 * time.Millisecond

	eventBuffer = 64
)

// Options configures the Model.
type Options struct {
	TeamA  string
	TeamB  string
	Points []int
}

type (
	changeMsg scoreboard.ChangeEvent
	tickMsg   int

	popExpiredMsg struct {
		team scoreboard.Team
		seq  int
	}
	flashExpiredMsg struct {
		seq int
	}
)

type pop struct {
	dir scoreboard.Direction
	seq int
}

// Model is the bubbletea model of the scoreboard screen.
type Model struct {
	game   *scoreboard.Game
	opts   Options
	keys   keyMap
	help   help.Model
	styles styles

	events <-chan scoreboard.ChangeEvent
	ticks  <-chan int

	pops      map[scoreboard.Team]pop
	popSeq    int
	flashing  bool
	flashSeq  int
	lastError error
	width     int
	quitting  bool
}

// New creates a Model driving game. It subscribes to the game's change
// events and timer ticks; events that arrive faster than they are rendered
// are dropped, since the score itself is always read from the game.
func New(game *scoreboard.Game, opts Options) Model {
	if opts.TeamA == "" {
		opts.TeamA = "Team A"
	}
	if opts.TeamB == "" {
		opts.TeamB = "Team B"
	}
	if len(opts.Points) == 0 {
		opts.Points = []int{1, 2, 3}
	}

	events := make(chan scoreboard.ChangeEvent, eventBuffer)
	game.Session().Subscribe(func(ev scoreboard.ChangeEvent) {
		select {
		case events <- ev:
		default:
		}
	})

	ticks := make(chan int, 1)
	game.Timer().OnTick(func(elapsed int) {
		select {
		case ticks <- elapsed:
		default:
		}
	})

	return Model{
		game:   game,
		opts:   opts,
		keys:   newKeyMap(opts.Points),
		help:   help.New(),
		styles: defaultStyles(),
		events: events,
		ticks:  ticks,
		pops:   make(map[scoreboard.Team]pop),
	}
}

func waitForEvent(ch <-chan scoreboard.ChangeEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return changeMsg(ev)
	}
}

func waitForTick(ch <-chan int) tea.Cmd {
	return func() tea.Msg {
		elapsed, ok := <-ch
		if !ok {
			return nil
		}
		return tickMsg(elapsed)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), waitForTick(m.ticks))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case changeMsg:
		cmd := m.animate(scoreboard.ChangeEvent(msg).Feedback())
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case tickMsg:
		return m, waitForTick(m.ticks)

	case popExpiredMsg:
		if p, ok := m.pops[msg.team]; ok && p.seq == msg.seq {
			delete(m.pops, msg.team)
		}
		return m, nil

	case flashExpiredMsg:
		if msg.seq == m.flashSeq {
			m.flashing = false
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.Gate().Pending() {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			prev := m.game.Status().Score
			_, err := m.game.ConfirmNewGame()
			m.lastError = err
			return m, m.animate(scoreboard.Diff(prev, m.game.Status().Score))
		case key.Matches(msg, m.keys.Cancel):
			m.lastError = m.game.CancelNewGame()
		}
		return m, nil
	}

	for i, b := range m.keys.ScoreA {
		if key.Matches(msg, b) {
			m.lastError = m.game.AddPoints(scoreboard.TeamA, m.opts.Points[i])
			return m, nil
		}
	}
	for i, b := range m.keys.ScoreB {
		if key.Matches(msg, b) {
			m.lastError = m.game.AddPoints(scoreboard.TeamB, m.opts.Points[i])
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Undo):
		if !m.game.Session().CanUndo() {
			return m, nil
		}
		prev := m.game.Status().Score
		_, err := m.game.Undo()
		m.lastError = err
		return m, m.animate(scoreboard.Diff(prev, m.game.Status().Score))
	case key.Matches(msg, m.keys.Timer):
		_, m.lastError = m.game.ToggleTimer()
	case key.Matches(msg, m.keys.NewGame):
		m.lastError = m.game.RequestNewGame()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// animate starts the pop for every team that moved and the border flash
// if anything moved. Overlapping feedback restarts the timers.
func (m *Model) animate(f scoreboard.Feedback) tea.Cmd {
	if !f.Changed() {
		return nil
	}
	var cmds []tea.Cmd
	for _, ev := range f.Events() {
		m.popSeq++
		seq, team := m.popSeq, ev.Team
		m.pops[team] = pop{dir: ev.Direction, seq: seq}
		cmds = append(cmds, tea.Tick(popDuration, func(time.Time) tea.Msg {
			return popExpiredMsg{team: team, seq: seq}
		}))
	}
	m.flashSeq++
	m.flashing = true
	seq := m.flashSeq
	cmds = append(cmds, tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	}))
	return tea.Batch(cmds...)
}
