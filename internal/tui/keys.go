package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
)

var (
	teamAKeys = []string{"1", "2", "3"}
	teamBKeys = []string{"8", "9", "0"}
)

type keyMap struct {
	ScoreA  []key.Binding
	ScoreB  []key.Binding
	Undo    key.Binding
	Timer   key.Binding
	NewGame key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap(points []int) keyMap {
	km := keyMap{
		Undo: key.NewBinding(
			key.WithKeys("u", "backspace"),
			key.WithHelp("u", "undo"),
		),
		Timer: key.NewBinding(
			key.WithKeys(" ", "t"),
			key.WithHelp("space", "play/pause"),
		),
		NewGame: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new game"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
	for i, p := range points {
		if i >= len(teamAKeys) {
			break
		}
		km.ScoreA = append(km.ScoreA, key.NewBinding(
			key.WithKeys(teamAKeys[i]),
			key.WithHelp(teamAKeys[i], fmt.Sprintf("A +%d", p)),
		))
		km.ScoreB = append(km.ScoreB, key.NewBinding(
			key.WithKeys(teamBKeys[i]),
			key.WithHelp(teamBKeys[i], fmt.Sprintf("B +%d", p)),
		))
	}
	return km
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Undo, k.Timer, k.NewGame, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.ScoreA,
		k.ScoreB,
		{k.Undo, k.Timer, k.NewGame},
		{k.Help, k.Quit},
	}
}

// confirmHelp is shown while a new game awaits confirmation.
type confirmHelp struct{ k keyMap }

func (c confirmHelp) ShortHelp() []key.Binding {
	return []key.Binding{c.k.Confirm, c.k.Cancel, c.k.Quit}
}

func (c confirmHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{c.ShortHelp()}
}
