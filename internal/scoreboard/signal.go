package scoreboard

// Feedback is the per-team directional delta between two snapshots, plus
// the aggregate change flag that drives whole-board feedback such as a
// border flash.
type Feedback struct {
	// A and B are zero when that team's score did not move.
	A Direction
	B Direction
}

// Changed reports whether either score moved.
func (f Feedback) Changed() bool {
	return f.A != 0 || f.B != 0
}

// Direction returns the delta for team t, zero when it did not move.
func (f Feedback) Direction(t Team) Direction {
	switch t {
	case TeamA:
		return f.A
	case TeamB:
		return f.B
	default:
		return 0
	}
}

// Events returns one ChangeEvent per team that moved, team A first.
func (f Feedback) Events() []ChangeEvent {
	var out []ChangeEvent
	if f.A != 0 {
		out = append(out, ChangeEvent{Team: TeamA, Direction: f.A})
	}
	if f.B != 0 {
		out = append(out, ChangeEvent{Team: TeamB, Direction: f.B})
	}
	return out
}

// Diff derives the per-team directions between prev and next.
// The engine only emits events from AddPoints; presentation code uses Diff
// to animate undo or reset without the engine having to guess a direction.
func Diff(prev, next Snapshot) Feedback {
	return Feedback{
		A: direction(prev.A, next.A),
		B: direction(prev.B, next.B),
	}
}

func direction(prev, next int) Direction {
	switch {
	case next > prev:
		return Up
	case next < prev:
		return Down
	default:
		return 0
	}
}

// Feedback converts a single change event into its Feedback form.
func (e ChangeEvent) Feedback() Feedback {
	var f Feedback
	switch e.Team {
	case TeamA:
		f.A = e.Direction
	case TeamB:
		f.B = e.Direction
	}
	return f
}

// Share returns each team's fraction of the total points. Both are 0.5
// before anyone has scored.
func Share(s Snapshot) (a, b float64) {
	total := s.Total()
	if total <= 0 {
		return 0.5, 0.5
	}
	a = float64(s.A) / float64(total)
	return a, 1 - a
}
