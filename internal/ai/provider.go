package ai

import (
	"context"
	"errors"
	"fmt"

	"nextlevel/academy-app/internal/domain"
)

// PlanProvider is the generation backend behind onboarding assessment,
// weekly plan creation and the coach chat. Implementations return either a
// transient error (rate limiting, retried automatically by the client) or
// a permanent one; malformed output counts as permanent.
type PlanProvider interface {
	// Assess scores a confirmed onboarding draft against its field tests.
	Assess(ctx context.Context, draft domain.OnboardingDraft, results domain.AssessmentResults) (domain.AssessmentReport, error)

	// GeneratePlan produces the profile's next weekly session plan.
	// feedback is the player's end-of-week note and is empty for the
	// initial plan of a week.
	GeneratePlan(ctx context.Context, profile domain.PlayerProfile, feedback string) (domain.PlanResult, error)

	// Chat answers one coach-chat turn.
	Chat(ctx context.Context, profile domain.PlayerProfile, history []domain.ChatMessage, message string) (string, error)
}

// ErrMalformedResponse marks provider output that could not be decoded
// into the requested schema. Treated exactly like any other permanent
// failure: surfaced, never retried.
var ErrMalformedResponse = errors.New("provider returned malformed response")

// APIError is a non-2xx answer from the provider's HTTP API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider http %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// IsRateLimited reports whether err is a rate-limit-class failure, the
// only class that earns an automatic retry.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
