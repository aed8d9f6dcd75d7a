package service

import (
	"context"
	"errors"
	"log"

	"nextlevel/academy-app/internal/ai"
	"nextlevel/academy-app/internal/domain"
	"nextlevel/academy-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProfileNotFound = errors.New("player profile not found")
	ErrProfileExists   = errors.New("player profile already exists")
)

// ProfileService owns the player profile lifecycle: view routing,
// onboarding intake and the initial scout assessment.
type ProfileService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.PlayerProfile, error)
	// HasProfile reports whether a profile exists. Store failures count as
	// "no profile": a broken read must route the player to onboarding, not
	// to an error page.
	HasProfile(ctx context.Context, userID primitive.ObjectID) bool
	// ResolveView routes an initial page load.
	ResolveView(ctx context.Context, userID *primitive.ObjectID) domain.View
	// ResolveStartView routes the landing page's start action.
	ResolveStartView(ctx context.Context, userID *primitive.ObjectID) domain.View
	// ValidateStep checks one intake step of an onboarding draft.
	ValidateStep(step int, draft domain.OnboardingDraft, results domain.AssessmentResults) error
	// CompleteOnboarding validates the full draft, runs the scout
	// assessment and persists the initial profile.
	CompleteOnboarding(ctx context.Context, userID primitive.ObjectID, draft domain.OnboardingDraft, results domain.AssessmentResults) (*domain.PlayerProfile, error)
}

// profileService implements the ProfileService interface.
type profileService struct {
	profileRepo repository.ProfileRepository
	provider    ai.PlanProvider
	gate        *GenerationGate
}

// NewProfileService creates a new instance of profileService. The gate is
// shared with the plan service so a player never has two provider calls
// running at once.
func NewProfileService(profileRepo repository.ProfileRepository, provider ai.PlanProvider, gate *GenerationGate) ProfileService {
	if gate == nil {
		gate = NewGenerationGate()
	}
	return &profileService{
		profileRepo: profileRepo,
		provider:    provider,
		gate:        gate,
	}
}

// GetProfile fetches the player's profile.
func (s *profileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.PlayerProfile, error) {
	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// HasProfile reports profile existence, treating any read failure as
// absence.
func (s *profileService) HasProfile(ctx context.Context, userID primitive.ObjectID) bool {
	_, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("WARN: profile read failed for %s, routing to onboarding: %v", userID.Hex(), err)
		}
		return false
	}
	return true
}

// ResolveView routes an initial page load.
func (s *profileService) ResolveView(ctx context.Context, userID *primitive.ObjectID) domain.View {
	if userID == nil {
		return domain.ResolveView(false, false)
	}
	return domain.ResolveView(true, s.HasProfile(ctx, *userID))
}

// ResolveStartView routes the landing page's start action.
func (s *profileService) ResolveStartView(ctx context.Context, userID *primitive.ObjectID) domain.View {
	if userID == nil {
		return domain.StartView(false, false)
	}
	return domain.StartView(true, s.HasProfile(ctx, *userID))
}

// ValidateStep checks one intake step of an onboarding draft.
func (s *profileService) ValidateStep(step int, draft domain.OnboardingDraft, results domain.AssessmentResults) error {
	return draft.ValidateStep(step, results)
}

// CompleteOnboarding runs the full intake validation, asks the scout model
// for an assessment and persists the initial profile.
func (s *profileService) CompleteOnboarding(ctx context.Context, userID primitive.ObjectID, draft domain.OnboardingDraft, results domain.AssessmentResults) (*domain.PlayerProfile, error) {
	if _, err := s.profileRepo.Get(ctx, userID); err == nil {
		return nil, ErrProfileExists
	}
	// Any read failure falls through: the upsert below is idempotent.

	if err := draft.Validate(results); err != nil {
		return nil, err
	}

	key := userID.Hex()
	if !s.gate.tryAcquire(key) {
		return nil, ErrGenerationInFlight
	}
	defer s.gate.release(key)

	report, err := s.provider.Assess(ctx, draft, results)
	if err != nil {
		return nil, err
	}

	profile := domain.NewProfile(userID, draft, results, report)
	if err := s.profileRepo.Upsert(ctx, &profile); err != nil {
		// Profile creation must be durable before the player leaves
		// onboarding.
		return nil, err
	}
	return &profile, nil
}
