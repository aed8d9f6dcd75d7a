package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Position is the player's primary role on the pitch.
type Position string

const (
	PositionForward    Position = "Forward"
	PositionMidfielder Position = "Midfielder"
	PositionDefender   Position = "Defender"
	PositionGoalkeeper Position = "Goalkeeper"
)

// Valid reports whether p is one of the known positions.
func (p Position) Valid() bool {
	switch p {
	case PositionForward, PositionMidfielder, PositionDefender, PositionGoalkeeper:
		return true
	}
	return false
}

// Goal is the career target the player trains towards.
type Goal string

const (
	GoalSchoolTeam Goal = "School Team"
	GoalAcademy    Goal = "Professional Academy"
	GoalCasual     Goal = "Street/Casual"
)

// Valid reports whether g is one of the known goals.
func (g Goal) Valid() bool {
	switch g {
	case GoalSchoolTeam, GoalAcademy, GoalCasual:
		return true
	}
	return false
}

// PlayerProfile is the aggregate root of a player's academy state: one
// document per authenticated user, created at the end of onboarding and
// replaced wholesale on weekly review. The progression service is its only
// writer.
type PlayerProfile struct {
	UserID            primitive.ObjectID  `bson:"_id,omitempty" json:"-"`
	Name              string              `bson:"name" json:"name"`
	Age               int                 `bson:"age" json:"age"`
	Position          Position            `bson:"position" json:"position"`
	Goal              Goal                `bson:"goal" json:"goal"`
	Weaknesses        string              `bson:"weaknesses" json:"weaknesses"`
	HoursPerWeek      int                 `bson:"hoursPerWeek" json:"hoursPerWeek"`
	SessionsPerWeek   int                 `bson:"sessionsPerWeek" json:"sessionsPerWeek"`
	Stats             UserStats           `bson:"stats" json:"stats"`
	StatsHistory      []StatsPoint        `bson:"statsHistory" json:"statsHistory"`
	Assessment        *AssessmentResults  `bson:"assessment,omitempty" json:"assessment,omitempty"`
	AssessmentHistory []AssessmentResults `bson:"assessmentHistory" json:"assessmentHistory"`
	Evaluation        string              `bson:"evaluation,omitempty" json:"evaluation,omitempty"`
	Streak            int                 `bson:"streak" json:"streak"`
	Level             int                 `bson:"level" json:"level"`
	XP                int                 `bson:"xp" json:"xp"`
	CurrentWeek       int                 `bson:"currentWeek" json:"currentWeek"`
	CurrentSessions   []TrainingSession   `bson:"currentSessions" json:"currentSessions"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// AssessmentReport is what the scout model returns for an onboarding
// assessment.
type AssessmentReport struct {
	Stats      UserStats `json:"stats"`
	Level      int       `json:"level"`
	Evaluation string    `json:"evaluation"`
}

// PlanResult is what the plan generator returns for a week. Sessions are
// expected to already be reconciled (see ReconcileSessions) by the caller
// before they reach AdvanceWeek.
type PlanResult struct {
	Sessions     []TrainingSession `json:"sessions"`
	UpdatedStats UserStats         `json:"updatedStats"`
	Evaluation   string            `json:"evaluation"`
}

// NewProfile builds the initial profile from a confirmed onboarding draft
// and the scout's assessment report: week one, zero streak and xp, and a
// one-point history labeled "Entry".
func NewProfile(userID primitive.ObjectID, draft OnboardingDraft, results AssessmentResults, report AssessmentReport) PlayerProfile {
	level := report.Level
	if level < 1 {
		level = 1
	}
	assessment := results
	return PlayerProfile{
		UserID:          userID,
		Name:            draft.Name,
		Age:             draft.Age,
		Position:        draft.Position,
		Goal:            draft.Goal,
		Weaknesses:      draft.Weaknesses,
		HoursPerWeek:    draft.HoursPerWeek,
		SessionsPerWeek: draft.SessionsPerWeek,
		Stats:           report.Stats,
		StatsHistory: []StatsPoint{{
			Date:      "Entry",
			Overall:   report.Stats.Overall(),
			Technical: report.Stats.Technical,
			Physical:  report.Stats.Physical,
		}},
		Assessment:        &assessment,
		AssessmentHistory: []AssessmentResults{results},
		Evaluation:        report.Evaluation,
		Streak:            0,
		Level:             level,
		XP:                0,
		CurrentWeek:       1,
	}
}

// AdvanceWeek computes the profile for the next week from a finished week's
// plan result. It is pure: the receiver is copied and the input profile is
// not mutated, so callers persist the returned profile in a single write or
// not at all. Stats are merged conservatively and a history point tagged
// with the finished week's label is appended.
func (p PlayerProfile) AdvanceWeek(result PlanResult) PlayerProfile {
	merged := MergeStats(p.Stats, result.UpdatedStats)

	history := make([]StatsPoint, len(p.StatsHistory), len(p.StatsHistory)+1)
	copy(history, p.StatsHistory)
	history = append(history, StatsPoint{
		Date:      fmt.Sprintf("W%d", p.CurrentWeek),
		Overall:   merged.Overall(),
		Technical: merged.Technical,
		Physical:  merged.Physical,
	})

	next := p
	next.Stats = merged
	next.StatsHistory = history
	next.Evaluation = result.Evaluation
	next.CurrentSessions = result.Sessions
	next.CurrentWeek = p.CurrentWeek + 1
	next.Streak = p.Streak + 1
	return next
}

// SessionByID returns a pointer into CurrentSessions, or nil.
func (p *PlayerProfile) SessionByID(id string) *TrainingSession {
	for i := range p.CurrentSessions {
		if p.CurrentSessions[i].ID == id {
			return &p.CurrentSessions[i]
		}
	}
	return nil
}
