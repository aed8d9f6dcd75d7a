package service

import (
	"context"
	"sync"

	"nextlevel/academy-app/internal/domain"
	"nextlevel/academy-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeProfileRepo is an in-memory repository.ProfileRepository. Reads hand
// out deep copies so service-side mutation never leaks into the "stored"
// state.
type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[primitive.ObjectID]domain.PlayerProfile

	getErr    error
	upsertErr error
	updateErr error

	upsertCalls int
	updateCalls int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[primitive.ObjectID]domain.PlayerProfile)}
}

func cloneSessions(sessions []domain.TrainingSession) []domain.TrainingSession {
	if sessions == nil {
		return nil
	}
	out := make([]domain.TrainingSession, len(sessions))
	for i, s := range sessions {
		exercises := make([]domain.Exercise, len(s.Exercises))
		copy(exercises, s.Exercises)
		s.Exercises = exercises
		out[i] = s
	}
	return out
}

func cloneProfile(p domain.PlayerProfile) domain.PlayerProfile {
	p.CurrentSessions = cloneSessions(p.CurrentSessions)
	history := make([]domain.StatsPoint, len(p.StatsHistory))
	copy(history, p.StatsHistory)
	p.StatsHistory = history
	return p
}

func (r *fakeProfileRepo) Get(ctx context.Context, userID primitive.ObjectID) (*domain.PlayerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := cloneProfile(p)
	return &clone, nil
}

func (r *fakeProfileRepo) Upsert(ctx context.Context, profile *domain.PlayerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertCalls++
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.profiles[profile.UserID] = cloneProfile(*profile)
	return nil
}

func (r *fakeProfileRepo) UpdateSessions(ctx context.Context, userID primitive.ObjectID, sessions []domain.TrainingSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	p, ok := r.profiles[userID]
	if !ok {
		return repository.ErrNotFound
	}
	p.CurrentSessions = cloneSessions(sessions)
	r.profiles[userID] = p
	return nil
}

// stored returns the persisted profile, bypassing error injection.
func (r *fakeProfileRepo) stored(userID primitive.ObjectID) (domain.PlayerProfile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	return cloneProfile(p), ok
}

func (r *fakeProfileRepo) put(p domain.PlayerProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID] = cloneProfile(p)
}

// fakeProvider is a scripted ai.PlanProvider.
type fakeProvider struct {
	mu sync.Mutex

	assessReport domain.AssessmentReport
	assessErr    error
	planResult   domain.PlanResult
	planErr      error
	chatReply    string
	chatErr      error

	assessCalls int
	planCalls   int
	chatCalls   int

	lastFeedback string
	// onGeneratePlan runs inside GeneratePlan, before it returns. Used to
	// interleave concurrent writes.
	onGeneratePlan func()
}

func (p *fakeProvider) Assess(ctx context.Context, draft domain.OnboardingDraft, results domain.AssessmentResults) (domain.AssessmentReport, error) {
	p.mu.Lock()
	p.assessCalls++
	p.mu.Unlock()
	if p.assessErr != nil {
		return domain.AssessmentReport{}, p.assessErr
	}
	return p.assessReport, nil
}

func (p *fakeProvider) GeneratePlan(ctx context.Context, profile domain.PlayerProfile, feedback string) (domain.PlanResult, error) {
	p.mu.Lock()
	p.planCalls++
	p.lastFeedback = feedback
	hook := p.onGeneratePlan
	p.mu.Unlock()
	if hook != nil {
		hook()
	}
	if p.planErr != nil {
		return domain.PlanResult{}, p.planErr
	}
	return p.planResult, nil
}

func (p *fakeProvider) Chat(ctx context.Context, profile domain.PlayerProfile, history []domain.ChatMessage, message string) (string, error) {
	p.mu.Lock()
	p.chatCalls++
	p.mu.Unlock()
	if p.chatErr != nil {
		return "", p.chatErr
	}
	return p.chatReply, nil
}

// --- Shared fixtures ---

func validDraft() domain.OnboardingDraft {
	return domain.OnboardingDraft{
		Name:            "Minh",
		Age:             15,
		Position:        domain.PositionMidfielder,
		Goal:            domain.GoalAcademy,
		HoursPerWeek:    6,
		SessionsPerWeek: 3,
		Weaknesses:      "weak foot finishing",
	}
}

func validResults() domain.AssessmentResults {
	return domain.AssessmentResults{
		Sprint100m: 14.2,
		Juggling:   35,
		Dribbling:  18.5,
		Plank:      90,
	}
}

func sampleReport() domain.AssessmentReport {
	return domain.AssessmentReport{
		Stats:      domain.UserStats{Technical: 55, Physical: 60, Tactical: 45, Mental: 50, Speed: 58, Stamina: 52},
		Level:      40,
		Evaluation: "Raw but promising.",
	}
}

func generatedSessions(n int) []domain.TrainingSession {
	sessions := make([]domain.TrainingSession, n)
	for i := range sessions {
		sessions[i] = domain.TrainingSession{
			Title:      "Session",
			Type:       domain.SessionTechnical,
			Duration:   45,
			Difficulty: 3,
			Exercises: []domain.Exercise{
				{Phase: domain.PhaseWarmUp, Name: "Jog", Reps: "5min"},
				{Phase: domain.PhaseMain, Name: "Passing", Reps: "4x20"},
				{Phase: domain.PhaseConditioning, Name: "Sprints", Reps: "6x30m"},
			},
		}
	}
	return sessions
}

// profileWithSessions builds a stored profile mid-programme.
func profileWithSessions(userID primitive.ObjectID, week int, completed bool) domain.PlayerProfile {
	profile := domain.NewProfile(userID, validDraft(), validResults(), sampleReport())
	profile.CurrentWeek = week
	profile.Streak = week - 2
	sessions := generatedSessions(3)
	for i := range sessions {
		sessions[i].ID = string(rune('a' + i))
		sessions[i].Completed = completed
	}
	profile.CurrentSessions = sessions
	return profile
}
