package scoreboard

import (
	"fmt"
	"math"
	"sync"
)

// ChangeListener receives change events in the order the mutations were
// committed.
type ChangeListener func(ChangeEvent)

type listenerEntry struct {
	id int
	fn ChangeListener
}

// Session is the authoritative score state with linear undo.
//
// The history is never empty: it is seeded with the zero snapshot and the
// current score is always its last element. Every successful AddPoints
// appends exactly one snapshot, so Undo always unwinds exactly one scoring
// action.
type Session struct {
	mu         sync.Mutex // Protects history, lastScorer, listeners and the event queue
	history    []Snapshot
	lastScorer *Scorer

	listeners  []listenerEntry
	nextListID int

	// queue holds events committed but not yet delivered. Delivery happens
	// outside mu; draining marks that some caller is already delivering.
	queue    []ChangeEvent
	draining bool
}

// NewSession creates a session seeded with the zero snapshot.
func NewSession() *Session {
	return &Session{
		history:    []Snapshot{{}},
		nextListID: 1,
	}
}

// AddPoints appends a snapshot equal to the current one with points added
// to team, records the scorer, and emits ChangeEvent{team, Up}.
// An invalid team, non-positive points, or points that would overflow the
// team's score leave the session untouched.
func (s *Session) AddPoints(team Team, points int) error {
	if !team.Valid() {
		return fmt.Errorf("add points for %v: %w", team, ErrInvalidTeam)
	}
	if points <= 0 {
		return fmt.Errorf("add %d points for team %v: %w", points, team, ErrInvalidPoints)
	}

	s.mu.Lock()
	cur := s.history[len(s.history)-1]
	if points > math.MaxInt-cur.Score(team) {
		s.mu.Unlock()
		return fmt.Errorf("add %d points for team %v: %w", points, team, ErrScoreOverflow)
	}
	next := cur.add(team, points)
	s.history = append(s.history, next)
	s.lastScorer = &Scorer{Team: team, Points: points}
	s.queue = append(s.queue, ChangeEvent{Team: team, Direction: Up})
	s.mu.Unlock()

	s.deliver()
	return nil
}

// Undo removes the most recent snapshot and clears the last scorer. It
// emits no event. It reports false, doing nothing, when only the seed
// snapshot remains.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) <= 1 {
		return false
	}
	s.history[len(s.history)-1] = Snapshot{}
	s.history = s.history[:len(s.history)-1]
	s.lastScorer = nil
	return true
}

// Reset replaces the history with the zero snapshot and clears the last
// scorer.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = []Snapshot{{}}
	s.lastScorer = nil
}

// Current returns the current score.
func (s *Session) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history[len(s.history)-1]
}

// CanUndo reports whether Undo would remove a snapshot.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history) > 1
}

// LastScorer returns the most recent scoring action, if any survives.
func (s *Session) LastScorer() (Scorer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastScorer == nil {
		return Scorer{}, false
	}
	return *s.lastScorer, true
}

// Len returns the number of snapshots in the history, including the seed.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// History returns a copy of the history, oldest first.
func (s *Session) History() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Snapshot, len(s.history))
	copy(out, s.history)
	return out
}

// Leader returns the leading team. It reports false on a tie.
func (s *Session) Leader() (Team, bool) {
	cur := s.Current()
	switch {
	case cur.A > cur.B:
		return TeamA, true
	case cur.B > cur.A:
		return TeamB, true
	default:
		return 0, false
	}
}

// Margin returns the absolute difference between the two scores.
func (s *Session) Margin() int {
	cur := s.Current()
	if cur.A > cur.B {
		return cur.A - cur.B
	}
	return cur.B - cur.A
}

// Subscribe registers fn for change events and returns its id.
// Listeners run synchronously on the mutating goroutine, after the
// mutation has committed and without any session lock held. A listener
// that mutates the session has its own events queued behind the event
// being delivered.
func (s *Session) Subscribe(fn ChangeListener) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListID
	s.nextListID++
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	return id
}

// Unsubscribe removes the listener with the given id. Unknown ids are
// ignored.
func (s *Session) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

// deliver drains the event queue unless another call is already doing so,
// in which case that call delivers the newly queued events in order.
//
// A panicking listener propagates to the mutating caller. Events still
// queued at that point are dropped, and the session keeps delivering
// events of later mutations.
func (s *Session) deliver() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	locked := true
	defer func() {
		if !locked {
			s.mu.Lock()
		}
		s.queue = nil
		s.draining = false
		s.mu.Unlock()
	}()

	for len(s.queue) > 0 {
		ev := s.queue[0]
		s.queue = s.queue[1:]
		listeners := make([]listenerEntry, len(s.listeners))
		copy(listeners, s.listeners)
		s.mu.Unlock()
		locked = false

		for _, l := range listeners {
			l.fn(ev)
		}

		s.mu.Lock()
		locked = true
	}
}
