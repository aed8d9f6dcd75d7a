package domain

import "github.com/google/uuid"

// Phase identifies which part of a training session an exercise belongs to.
type Phase string

const (
	PhaseWarmUp        Phase = "warm-up"
	PhaseMain          Phase = "main"
	PhaseSupplementary Phase = "supplementary"
	PhaseConditioning  Phase = "conditioning"
)

// PhaseOrder is the fixed display order of session phases.
var PhaseOrder = []Phase{PhaseWarmUp, PhaseMain, PhaseSupplementary, PhaseConditioning}

// SessionType tags what a training session primarily works on.
type SessionType string

const (
	SessionTechnical SessionType = "technical"
	SessionPhysical  SessionType = "physical"
	SessionRecovery  SessionType = "recovery"
)

// Exercise is a single drill inside a session. Completed is only meaningful
// inside an open session view; it is reset whenever a plan is generated.
type Exercise struct {
	Phase        Phase  `bson:"phase" json:"phase"`
	Name         string `bson:"name" json:"name"`
	Reps         string `bson:"reps" json:"reps"`
	Description  string `bson:"description" json:"description"`
	YoutubeQuery string `bson:"youtubeQuery" json:"youtubeQuery"`
	Completed    bool   `bson:"completed" json:"completed"`
}

// TrainingSession is one training unit of the current week's plan.
type TrainingSession struct {
	ID         string      `bson:"id" json:"id"`
	Title      string      `bson:"title" json:"title"`
	Type       SessionType `bson:"type" json:"type"`
	Duration   int         `bson:"duration" json:"duration"` // minutes
	Difficulty int         `bson:"difficulty" json:"difficulty"`
	Completed  bool        `bson:"completed" json:"completed"`
	Exercises  []Exercise  `bson:"exercises" json:"exercises"`
}

// SessionMinutes derives the uniform per-session duration from the player's
// weekly time budget.
func SessionMinutes(hoursPerWeek, sessionsPerWeek int) int {
	if sessionsPerWeek <= 0 {
		return 0
	}
	return int(float64(hoursPerWeek*60)/float64(sessionsPerWeek) + 0.5)
}

// ReconcileSessions normalizes a provider-generated session list to the
// application's invariants: at most sessionsPerWeek entries (provider order
// preserved, shorter lists accepted unpadded), every session not completed,
// every duration forced to the derived per-session minutes, and a generated
// id for any session the provider returned without one.
func ReconcileSessions(sessions []TrainingSession, sessionsPerWeek, minutes int) []TrainingSession {
	if sessionsPerWeek > 0 && len(sessions) > sessionsPerWeek {
		sessions = sessions[:sessionsPerWeek]
	}
	out := make([]TrainingSession, len(sessions))
	for i, s := range sessions {
		s.Completed = false
		s.Duration = minutes
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		exercises := make([]Exercise, len(s.Exercises))
		for j, ex := range s.Exercises {
			ex.Completed = false
			exercises[j] = ex
		}
		s.Exercises = exercises
		out[i] = s
	}
	return out
}

// WeekComplete reports whether every session of the current week is done.
// An empty plan is never complete.
func WeekComplete(sessions []TrainingSession) bool {
	if len(sessions) == 0 {
		return false
	}
	for _, s := range sessions {
		if !s.Completed {
			return false
		}
	}
	return true
}
