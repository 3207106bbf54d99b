package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joeycumines/buckets/internal/scoreboard"
	"github.com/joeycumines/buckets/internal/termui/scorebar"
	"github.com/rivo/uniseg"
)

const (
	cardWidth    = 36
	maxNameWidth = 14
)

type styles struct {
	title  lipgloss.Style
	card   lipgloss.Style
	flash  lipgloss.Color
	idle   lipgloss.Color
	name   lipgloss.Style
	score  lipgloss.Style
	up     lipgloss.Style
	down   lipgloss.Style
	info   lipgloss.Style
	points lipgloss.Style
	timer  lipgloss.Style
	prompt lipgloss.Style
	err    lipgloss.Style
	teamA  lipgloss.Style
	teamB  lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Padding(0, 1),
		card:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(cardWidth),
		flash:  lipgloss.Color("212"),
		idle:   lipgloss.Color("238"),
		name:   lipgloss.NewStyle().Width(maxNameWidth + 2).Align(lipgloss.Center),
		score:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		up:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		down:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		info:   lipgloss.NewStyle().Padding(0, 1),
		points: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		timer:  lipgloss.NewStyle().Bold(true).Padding(0, 1),
		prompt: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Width(cardWidth),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		teamA:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		teamB:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	st := m.game.Status()

	var b strings.Builder
	b.WriteString(m.styles.title.Render("Buckets Scoreboard"))
	b.WriteString("\n")
	b.WriteString(m.renderCard(st))
	b.WriteString("\n")
	b.WriteString(m.styles.info.Render(m.lastScorerLine(st)))
	b.WriteString("\n")
	b.WriteString(m.styles.timer.Render(timerLine(st)))
	b.WriteString("\n")

	if st.Gate == scoreboard.PendingConfirmation {
		b.WriteString(m.styles.prompt.Render("Start a new game? All current scores will be lost. (y/n)"))
		b.WriteString("\n")
		b.WriteString(m.help.View(confirmHelp{k: m.keys}))
	} else {
		keys := m.keys
		keys.Undo.SetEnabled(st.CanUndo)
		b.WriteString(m.help.View(keys))
	}

	if m.lastError != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.err.Render("Error: " + m.lastError.Error()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderCard(st scoreboard.Status) string {
	names := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.name.Render(truncate(m.opts.TeamA, maxNameWidth)),
		m.styles.name.Render(truncate(m.opts.TeamB, maxNameWidth)),
	)
	scores := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.name.Render(m.scoreCell(scoreboard.TeamA, st.Score.A)),
		m.styles.name.Render(m.scoreCell(scoreboard.TeamB, st.Score.B)),
	)

	a, bShare := scoreboard.Share(st.Score)
	bar := scorebar.New(
		scorebar.WithWidth(cardWidth-2),
		scorebar.WithShare(a, bShare),
		scorebar.WithStyles(m.styles.teamA, m.styles.teamB),
	)

	border := m.styles.idle
	if m.flashing {
		border = m.styles.flash
	}
	return m.styles.card.BorderForeground(border).Render(
		lipgloss.JoinVertical(lipgloss.Left, names, scores, bar.View()),
	)
}

// scoreCell renders a score with the pop marker while it is active.
func (m Model) scoreCell(team scoreboard.Team, score int) string {
	cell := m.styles.score.Render(fmt.Sprint(score))
	p, ok := m.pops[team]
	if !ok {
		return cell
	}
	switch p.dir {
	case scoreboard.Up:
		return cell + " " + m.styles.up.Render("▲")
	case scoreboard.Down:
		return cell + " " + m.styles.down.Render("▼")
	}
	return cell
}

func (m Model) lastScorerLine(st scoreboard.Status) string {
	if st.LastScorer == nil {
		return "No score yet"
	}
	name := m.opts.TeamA
	if st.LastScorer.Team == scoreboard.TeamB {
		name = m.opts.TeamB
	}
	return fmt.Sprintf("Last Scorer: %s scored (%s)",
		truncate(name, maxNameWidth),
		m.styles.points.Render(fmt.Sprintf("+%d", st.LastScorer.Points)))
}

func timerLine(st scoreboard.Status) string {
	icon := "▶"
	if st.Timer == scoreboard.Running {
		icon = "⏸"
	}
	return icon + " " + st.Clock
}

// truncate shortens s to at most width terminal cells, cutting on grapheme
// cluster boundaries and marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if uniseg.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	b.WriteString("…")
	return b.String()
}
