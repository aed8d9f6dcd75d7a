package domain

import "math"

// SessionProgress is the in-session exercise checklist. It is scoped to an
// open session view: the tracker is created when the session is opened and
// discarded when it closes, the week's plan is regenerated, or the player
// logs out. Exercise completion is deliberately not persisted with the
// session document.
type SessionProgress struct {
	total     int
	completed map[int]bool
	active    int
}

// NewSessionProgress opens a tracker for the given session. The focused
// exercise starts at the first incomplete exercise in natural order, or
// index zero when nothing is complete yet.
func NewSessionProgress(session TrainingSession) *SessionProgress {
	p := &SessionProgress{
		total:     len(session.Exercises),
		completed: make(map[int]bool),
	}
	for i, ex := range session.Exercises {
		if ex.Completed {
			p.completed[i] = true
		}
	}
	p.active = p.firstIncomplete()
	return p
}

func (p *SessionProgress) firstIncomplete() int {
	for i := 0; i < p.total; i++ {
		if !p.completed[i] {
			return i
		}
	}
	return 0
}

// Toggle flips the completion mark of the exercise at idx. Out-of-range
// indices are ignored.
func (p *SessionProgress) Toggle(idx int) {
	if idx < 0 || idx >= p.total {
		return
	}
	if p.completed[idx] {
		delete(p.completed, idx)
	} else {
		p.completed[idx] = true
	}
}

// Focus moves the active exercise. Out-of-range indices are ignored.
func (p *SessionProgress) Focus(idx int) {
	if idx < 0 || idx >= p.total {
		return
	}
	p.active = idx
}

// Active returns the currently focused exercise index.
func (p *SessionProgress) Active() int { return p.active }

// Done reports whether the exercise at idx is marked complete.
func (p *SessionProgress) Done(idx int) bool { return p.completed[idx] }

// CompletedCount returns how many exercises are marked complete.
func (p *SessionProgress) CompletedCount() int { return len(p.completed) }

// Percent returns the completion percentage rounded to the nearest integer.
func (p *SessionProgress) Percent() int {
	if p.total == 0 {
		return 0
	}
	return int(math.Round(float64(len(p.completed)) / float64(p.total) * 100))
}

// FinishAllowed reports whether the session may be marked finished from
// this view. One completed exercise is enough; full completion is not
// required.
func (p *SessionProgress) FinishAllowed() bool { return len(p.completed) > 0 }

// PhaseExercise pairs an exercise with its index in the session's flat
// exercise list, so the grouped view can still address the original slot.
type PhaseExercise struct {
	Index    int      `json:"index"`
	Exercise Exercise `json:"exercise"`
	Done     bool     `json:"done"`
}

// PhaseGroup is one displayed block of the session checklist.
type PhaseGroup struct {
	Phase     Phase           `json:"phase"`
	Exercises []PhaseExercise `json:"exercises"`
}

// PhaseGroups splits a session's exercises into the four fixed phases in
// display order. Phases with no exercises are omitted.
func (p *SessionProgress) PhaseGroups(session TrainingSession) []PhaseGroup {
	groups := make([]PhaseGroup, 0, len(PhaseOrder))
	for _, phase := range PhaseOrder {
		var g PhaseGroup
		g.Phase = phase
		for i, ex := range session.Exercises {
			if ex.Phase != phase {
				continue
			}
			g.Exercises = append(g.Exercises, PhaseExercise{Index: i, Exercise: ex, Done: p.completed[i]})
		}
		if len(g.Exercises) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}
