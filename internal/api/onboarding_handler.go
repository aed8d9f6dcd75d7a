package api

import (
	"errors"
	"fmt"
	"net/http"

	"nextlevel/academy-app/internal/domain"
	"nextlevel/academy-app/internal/service"

	"github.com/gin-gonic/gin"
)

// OnboardingHandler runs the six-step intake.
type OnboardingHandler struct {
	profileService service.ProfileService
}

// NewOnboardingHandler creates a new OnboardingHandler.
func NewOnboardingHandler(profileService service.ProfileService) *OnboardingHandler {
	return &OnboardingHandler{profileService: profileService}
}

// --- Request/Response Structs ---

type ValidateStepRequest struct {
	Step    int                      `json:"step" binding:"required,min=1,max=6"`
	Draft   domain.OnboardingDraft   `json:"draft"`
	Results domain.AssessmentResults `json:"results"`
}

type CompleteOnboardingRequest struct {
	Draft   domain.OnboardingDraft   `json:"draft" binding:"required"`
	Results domain.AssessmentResults `json:"results" binding:"required"`
}

type StepErrorResponse struct {
	Error string `json:"error"`
	Step  int    `json:"step"`
}

// ValidateStep checks a single intake step so the client can gate forward
// navigation.
func (h *OnboardingHandler) ValidateStep(c *gin.Context) {
	var req ValidateStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.profileService.ValidateStep(req.Step, req.Draft, req.Results); err != nil {
		var stepErr *domain.StepError
		if errors.As(err, &stepErr) {
			c.AbortWithStatusJSON(http.StatusBadRequest, StepErrorResponse{Error: stepErr.Reason, Step: stepErr.Step})
			return
		}
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Complete godoc
// @Summary Complete onboarding
// @Description Validates the full draft, runs the scout assessment and creates the profile.
// @Tags Onboarding
// @Accept json
// @Produce json
// @Param intake body CompleteOnboardingRequest true "Confirmed draft and field tests"
// @Success 201 {object} domain.PlayerProfile "Profile created"
// @Failure 400 {object} StepErrorResponse "A step failed validation"
// @Failure 409 {object} gin.H "Profile exists or a generation is already running"
// @Failure 502 {object} gin.H "Scout model failure"
// @Router /onboarding/complete [post]
func (h *OnboardingHandler) Complete(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CompleteOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.profileService.CompleteOnboarding(c.Request.Context(), userID, req.Draft, req.Results)
	if err != nil {
		var stepErr *domain.StepError
		switch {
		case errors.As(err, &stepErr):
			c.AbortWithStatusJSON(http.StatusBadRequest, StepErrorResponse{Error: stepErr.Reason, Step: stepErr.Step})
		case errors.Is(err, service.ErrProfileExists):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithProviderError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, profile)
}
