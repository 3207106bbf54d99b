// Package scorebar renders a horizontal bar split between two teams in
// proportion to their share of the points scored.
package scorebar

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Model defines the state of the score bar.
type Model struct {
	// Width is the number of cells rendered.
	Width int
	// A and B are the fractions of the bar owned by each team. They are
	// normalised on render, so any non-negative pair works.
	A float64
	B float64

	// AStyle and BStyle are applied to each team's segment.
	AStyle lipgloss.Style
	BStyle lipgloss.Style

	// AChar and BChar are the characters used to fill each segment.
	AChar string
	BChar string
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new score bar with an even split.
func New(opts ...Option) Model {
	m := Model{
		Width: 20,
		A:     0.5,
		B:     0.5,
		AChar: "█",
		BChar: "█",
		AStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")), // Blue-ish default
		BStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")), // Red-ish default
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

// WithWidth sets the rendered width.
func WithWidth(w int) Option {
	return func(m *Model) {
		m.Width = w
	}
}

// WithShare sets each team's fraction.
func WithShare(a, b float64) Option {
	return func(m *Model) {
		m.A = a
		m.B = b
	}
}

// WithStyles sets the styles for both segments.
func WithStyles(a, b lipgloss.Style) Option {
	return func(m *Model) {
		m.AStyle = a
		m.BStyle = b
	}
}

// WithChars sets the fill characters for both segments.
func WithChars(a, b string) Option {
	return func(m *Model) {
		m.AChar = a
		m.BChar = b
	}
}

// Split returns how many cells belong to team A and team B. Every cell is
// assigned; a team with any share gets at least one cell when the width
// allows it.
func (m Model) Split() (a, b int) {
	if m.Width <= 0 {
		return 0, 0
	}
	shareA := math.Max(m.A, 0)
	shareB := math.Max(m.B, 0)
	total := shareA + shareB
	if total == 0 {
		shareA, shareB, total = 1, 1, 2
	}

	a = int(math.Round(float64(m.Width) * shareA / total))
	if a > m.Width {
		a = m.Width
	}
	if shareA > 0 && a == 0 && m.Width > 1 {
		a = 1
	}
	if shareB > 0 && a == m.Width && m.Width > 1 {
		a = m.Width - 1
	}
	return a, m.Width - a
}

// View renders the bar as a single line exactly Width cells wide.
func (m Model) View() string {
	a, b := m.Split()
	if a+b == 0 {
		return ""
	}

	var s strings.Builder
	if a > 0 {
		s.WriteString(m.AStyle.Render(strings.Repeat(m.AChar, a)))
	}
	if b > 0 {
		s.WriteString(m.BStyle.Render(strings.Repeat(m.BChar, b)))
	}
	return s.String()
}
