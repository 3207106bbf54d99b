// Package scoreboard implements the game-session state engine for a
// two-team live scoreboard: score bookkeeping with linear undo, a session
// timer, change signals for presentation feedback, and a confirmation gate
// guarding the new-game reset.
package scoreboard

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is the root of all caller-contract violations.
	ErrInvalidArgument = errors.New("scoreboard: invalid argument")
	// ErrInvalidTeam is returned for a team other than TeamA or TeamB.
	ErrInvalidTeam = fmt.Errorf("%w: unknown team", ErrInvalidArgument)
	// ErrInvalidPoints is returned for a non-positive points value.
	ErrInvalidPoints = fmt.Errorf("%w: points must be positive", ErrInvalidArgument)
	// ErrScoreOverflow is returned when adding points would overflow a score.
	ErrScoreOverflow = fmt.Errorf("%w: score overflow", ErrInvalidArgument)
)

// Team identifies one side of the game.
type Team int

const (
	TeamA Team = iota + 1
	TeamB
)

// Valid reports whether t is TeamA or TeamB.
func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// Other returns the opposing team.
func (t Team) Other() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	default:
		return t
	}
}

func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	default:
		return fmt.Sprintf("Team(%d)", int(t))
	}
}

// Direction is the sign of a score change.
type Direction int

const (
	// Up is the only direction produced by AddPoints.
	Up Direction = iota + 1
	// Down is reserved for a symmetric decrement; Diff reports it after undo.
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

// ChangeEvent is a transient notification that a team's score moved.
// It is advisory; the snapshot values remain the source of truth.
type ChangeEvent struct {
	Team      Team
	Direction Direction
}

// Snapshot is an immutable pair of team scores at one point in history.
type Snapshot struct {
	A int `json:"teamA"`
	B int `json:"teamB"`
}

// Score returns the score of the given team, or 0 for an invalid team.
func (s Snapshot) Score(t Team) int {
	switch t {
	case TeamA:
		return s.A
	case TeamB:
		return s.B
	default:
		return 0
	}
}

// Total returns the sum of both scores.
func (s Snapshot) Total() int {
	return s.A + s.B
}

// add returns a copy of s with points added to team t.
func (s Snapshot) add(t Team, points int) Snapshot {
	switch t {
	case TeamA:
		s.A += points
	case TeamB:
		s.B += points
	}
	return s
}

// Scorer records the most recent scoring action.
type Scorer struct {
	Team   Team
	Points int
}

func (s Scorer) String() string {
	return fmt.Sprintf("Team %s scored (+%d)", s.Team, s.Points)
}
