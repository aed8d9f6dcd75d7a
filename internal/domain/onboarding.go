package domain

import "fmt"

// Onboarding collects its inputs over six sequential steps. Step six is the
// confirmation screen and has no fields of its own; confirming validates
// everything collected so far.
const (
	StepIdentity   = 1 // name, age
	StepFieldData  = 2 // position, goal
	StepSchedule   = 3 // weekly time budget
	StepWeaknesses = 4 // self-reported weaknesses
	StepFieldTests = 5 // assessment measurements
	StepConfirm    = 6
)

// OnboardingDraft is the profile-in-progress collected by the intake steps.
type OnboardingDraft struct {
	Name            string   `json:"name"`
	Age             int      `json:"age"`
	Position        Position `json:"position"`
	Goal            Goal     `json:"goal"`
	HoursPerWeek    int      `json:"hoursPerWeek"`
	SessionsPerWeek int      `json:"sessionsPerWeek"`
	Weaknesses      string   `json:"weaknesses"`
}

// StepError reports which intake step failed validation and why. It blocks
// forward navigation locally; drafts that fail validation never reach the
// scout model.
type StepError struct {
	Step   int
	Reason string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("onboarding step %d: %s", e.Step, e.Reason)
}

// ValidateStep checks the fields a single intake step is responsible for.
// Steps only gate their own fields so a player can move forward as soon as
// the current screen is filled in.
func (d OnboardingDraft) ValidateStep(step int, results AssessmentResults) error {
	switch step {
	case StepIdentity:
		if d.Name == "" {
			return &StepError{Step: step, Reason: "name is required"}
		}
		if d.Age <= 0 {
			return &StepError{Step: step, Reason: "age must be positive"}
		}
	case StepFieldData:
		if !d.Position.Valid() {
			return &StepError{Step: step, Reason: "unknown position"}
		}
		if !d.Goal.Valid() {
			return &StepError{Step: step, Reason: "unknown goal"}
		}
	case StepSchedule:
		if d.SessionsPerWeek < 1 || d.SessionsPerWeek > 7 {
			return &StepError{Step: step, Reason: "sessions per week must be between 1 and 7"}
		}
		if d.HoursPerWeek < 1 || d.HoursPerWeek > 20 {
			return &StepError{Step: step, Reason: "hours per week must be between 1 and 20"}
		}
	case StepWeaknesses:
		if d.Weaknesses == "" {
			return &StepError{Step: step, Reason: "weaknesses are required"}
		}
	case StepFieldTests:
		if results.Sprint100m <= 0 {
			return &StepError{Step: step, Reason: "sprint time must be positive"}
		}
		if results.Juggling < 0 {
			return &StepError{Step: step, Reason: "juggling count cannot be negative"}
		}
		if results.Dribbling <= 0 {
			return &StepError{Step: step, Reason: "dribble time must be positive"}
		}
		if results.Plank <= 0 {
			return &StepError{Step: step, Reason: "plank duration must be positive"}
		}
	case StepConfirm:
		return d.Validate(results)
	default:
		return &StepError{Step: step, Reason: "unknown step"}
	}
	return nil
}

// Validate runs every intake step in order and returns the first failure.
func (d OnboardingDraft) Validate(results AssessmentResults) error {
	for step := StepIdentity; step <= StepFieldTests; step++ {
		if err := d.ValidateStep(step, results); err != nil {
			return err
		}
	}
	return nil
}
