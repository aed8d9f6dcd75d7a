package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"nextlevel/academy-app/internal/ai"
	"nextlevel/academy-app/internal/domain"
	"nextlevel/academy-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound  = errors.New("training session not found in current plan")
	ErrWeekIncomplete   = errors.New("current week still has unfinished sessions")
	ErrReviewSuperseded = errors.New("weekly review superseded by a newer plan")
	ErrNoOpenSession    = errors.New("no open session view for this session")
	ErrFinishNotAllowed = errors.New("finish requires at least one completed exercise")
)

// SessionView is the open-session checklist handed to the client: the
// session itself plus the grouped, indexed exercise list and the view's
// progress counters.
type SessionView struct {
	Session        domain.TrainingSession `json:"session"`
	Groups         []domain.PhaseGroup    `json:"groups"`
	Active         int                    `json:"active"`
	CompletedCount int                    `json:"completedCount"`
	Percent        int                    `json:"percent"`
	FinishAllowed  bool                   `json:"finishAllowed"`
}

// PlanService owns the weekly training loop: plan generation, session
// completion, the in-session exercise checklist, the weekly review and the
// coach chat.
type PlanService interface {
	// GetWeeklyPlan returns the profile with its current sessions,
	// generating a plan first if the week has none yet.
	GetWeeklyPlan(ctx context.Context, userID primitive.ObjectID) (*domain.PlayerProfile, error)
	// ToggleSession flips a session's completion mark.
	ToggleSession(ctx context.Context, userID primitive.ObjectID, sessionID string) (*domain.PlayerProfile, error)
	// FinishWeek runs the weekly review: merge stats, advance the week and
	// install next week's plan in one atomic profile write.
	FinishWeek(ctx context.Context, userID primitive.ObjectID, feedback string) (*domain.PlayerProfile, error)

	// OpenSession starts an exercise checklist view for one session.
	OpenSession(ctx context.Context, userID primitive.ObjectID, sessionID string) (*SessionView, error)
	// ToggleExercise flips one exercise in an open checklist.
	ToggleExercise(ctx context.Context, userID primitive.ObjectID, sessionID string, index int) (*SessionView, error)
	// FocusExercise moves the checklist's active exercise.
	FocusExercise(ctx context.Context, userID primitive.ObjectID, sessionID string, index int) (*SessionView, error)
	// FinishSession closes the checklist and marks the session complete.
	FinishSession(ctx context.Context, userID primitive.ObjectID, sessionID string) (*domain.PlayerProfile, error)

	// Chat answers one coach-chat turn against the player's profile.
	Chat(ctx context.Context, userID primitive.ObjectID, history []domain.ChatMessage, message string) (string, error)
	// Logout discards the player's open checklist views.
	Logout(userID primitive.ObjectID)
}

// openSession is one live checklist view. The session is a snapshot taken
// when the view opened; exercise completion lives only here.
type openSession struct {
	session  domain.TrainingSession
	progress *domain.SessionProgress
}

// planService implements the PlanService interface.
type planService struct {
	profileRepo repository.ProfileRepository
	provider    ai.PlanProvider
	gate        *GenerationGate

	mu   sync.Mutex
	open map[string]*openSession // key: userID.Hex() + "/" + sessionID
}

// NewPlanService creates a new instance of planService. The gate is shared
// with the profile service.
func NewPlanService(profileRepo repository.ProfileRepository, provider ai.PlanProvider, gate *GenerationGate) PlanService {
	if gate == nil {
		gate = NewGenerationGate()
	}
	return &planService{
		profileRepo: profileRepo,
		provider:    provider,
		gate:        gate,
		open:        make(map[string]*openSession),
	}
}

func (s *planService) getProfile(ctx context.Context, userID primitive.ObjectID) (*domain.PlayerProfile, error) {
	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// reconcile normalizes provider output to the profile's schedule.
func reconcile(profile *domain.PlayerProfile, sessions []domain.TrainingSession) []domain.TrainingSession {
	minutes := domain.SessionMinutes(profile.HoursPerWeek, profile.SessionsPerWeek)
	return domain.ReconcileSessions(sessions, profile.SessionsPerWeek, minutes)
}

// GetWeeklyPlan returns the current week's plan, generating one only when
// the profile has no sessions yet.
func (s *planService) GetWeeklyPlan(ctx context.Context, userID primitive.ObjectID) (*domain.PlayerProfile, error) {
	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(profile.CurrentSessions) > 0 {
		return profile, nil
	}

	key := userID.Hex()
	if !s.gate.tryAcquire(key) {
		return nil, ErrGenerationInFlight
	}
	defer s.gate.release(key)

	result, err := s.provider.GeneratePlan(ctx, *profile, "")
	if err != nil {
		return nil, err
	}
	profile.CurrentSessions = reconcile(profile, result.Sessions)

	// A fresh plan invalidates any checklist views from the old one.
	s.dropOpenSessions(userID)

	if err := s.profileRepo.UpdateSessions(ctx, userID, profile.CurrentSessions); err != nil {
		// The generated plan is still served; the next fetch regenerates
		// if the write never lands.
		log.Printf("WARN: failed to persist generated plan for %s: %v", key, err)
	}
	return profile, nil
}

// ToggleSession flips a session's completion mark and persists the list.
func (s *planService) ToggleSession(ctx context.Context, userID primitive.ObjectID, sessionID string) (*domain.PlayerProfile, error) {
	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	session := profile.SessionByID(sessionID)
	if session == nil {
		return nil, ErrSessionNotFound
	}
	session.Completed = !session.Completed

	if err := s.profileRepo.UpdateSessions(ctx, userID, profile.CurrentSessions); err != nil {
		return nil, err
	}
	return profile, nil
}

// FinishWeek performs the weekly review. Nothing is persisted until the
// generated plan has been reconciled and merged into the advanced profile;
// a failure at any point leaves the stored profile untouched.
func (s *planService) FinishWeek(ctx context.Context, userID primitive.ObjectID, feedback string) (*domain.PlayerProfile, error) {
	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !domain.WeekComplete(profile.CurrentSessions) {
		return nil, ErrWeekIncomplete
	}

	key := userID.Hex()
	if !s.gate.tryAcquire(key) {
		return nil, ErrGenerationInFlight
	}
	defer s.gate.release(key)

	result, err := s.provider.GeneratePlan(ctx, *profile, feedback)
	if err != nil {
		return nil, err
	}
	result.Sessions = reconcile(profile, result.Sessions)
	advanced := profile.AdvanceWeek(result)

	// The generation may have taken a while; if another device already
	// advanced the week, this result is stale and must not overwrite it.
	current, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current.CurrentWeek != profile.CurrentWeek {
		return nil, ErrReviewSuperseded
	}

	if err := s.profileRepo.Upsert(ctx, &advanced); err != nil {
		return nil, err
	}
	s.dropOpenSessions(userID)
	return &advanced, nil
}

// --- Exercise checklist views ---

func openKey(userID primitive.ObjectID, sessionID string) string {
	return userID.Hex() + "/" + sessionID
}

func (s *planService) dropOpenSessions(userID primitive.ObjectID) {
	prefix := userID.Hex() + "/"
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.open {
		if strings.HasPrefix(key, prefix) {
			delete(s.open, key)
		}
	}
}

func (s *planService) view(o *openSession) *SessionView {
	return &SessionView{
		Session:        o.session,
		Groups:         o.progress.PhaseGroups(o.session),
		Active:         o.progress.Active(),
		CompletedCount: o.progress.CompletedCount(),
		Percent:        o.progress.Percent(),
		FinishAllowed:  o.progress.FinishAllowed(),
	}
}

// OpenSession starts a checklist view over a snapshot of the session.
func (s *planService) OpenSession(ctx context.Context, userID primitive.ObjectID, sessionID string) (*SessionView, error) {
	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	session := profile.SessionByID(sessionID)
	if session == nil {
		return nil, ErrSessionNotFound
	}

	o := &openSession{
		session:  *session,
		progress: domain.NewSessionProgress(*session),
	}
	s.mu.Lock()
	s.open[openKey(userID, sessionID)] = o
	s.mu.Unlock()

	return s.view(o), nil
}

func (s *planService) openView(userID primitive.ObjectID, sessionID string) (*openSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.open[openKey(userID, sessionID)]
	if !ok {
		return nil, ErrNoOpenSession
	}
	return o, nil
}

// ToggleExercise flips one exercise mark in an open checklist.
func (s *planService) ToggleExercise(ctx context.Context, userID primitive.ObjectID, sessionID string, index int) (*SessionView, error) {
	o, err := s.openView(userID, sessionID)
	if err != nil {
		return nil, err
	}
	o.progress.Toggle(index)
	return s.view(o), nil
}

// FocusExercise moves the active exercise of an open checklist.
func (s *planService) FocusExercise(ctx context.Context, userID primitive.ObjectID, sessionID string, index int) (*SessionView, error) {
	o, err := s.openView(userID, sessionID)
	if err != nil {
		return nil, err
	}
	o.progress.Focus(index)
	return s.view(o), nil
}

// FinishSession marks the session complete and discards the checklist.
// Exercise marks are view state only; they are not written back.
func (s *planService) FinishSession(ctx context.Context, userID primitive.ObjectID, sessionID string) (*domain.PlayerProfile, error) {
	o, err := s.openView(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !o.progress.FinishAllowed() {
		return nil, ErrFinishNotAllowed
	}

	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	session := profile.SessionByID(sessionID)
	if session == nil {
		return nil, ErrSessionNotFound
	}
	session.Completed = true

	if err := s.profileRepo.UpdateSessions(ctx, userID, profile.CurrentSessions); err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.open, openKey(userID, sessionID))
	s.mu.Unlock()

	return profile, nil
}

// Chat answers one coach-chat turn.
func (s *planService) Chat(ctx context.Context, userID primitive.ObjectID, history []domain.ChatMessage, message string) (string, error) {
	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.provider.Chat(ctx, *profile, history, message)
}

// Logout discards every open checklist view of the player.
func (s *planService) Logout(userID primitive.ObjectID) {
	s.dropOpenSessions(userID)
}
