package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"nextlevel/academy-app/internal/service"

	"github.com/gin-gonic/gin"
)

// PlanHandler exposes the weekly training loop.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

type WeekReviewRequest struct {
	Feedback string `json:"feedback"`
}

func (h *PlanHandler) abortPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNoOpenSession):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrWeekIncomplete),
		errors.Is(err, service.ErrFinishNotAllowed):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrReviewSuperseded):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithProviderError(c, err)
	}
}

// GetPlan godoc
// @Summary Get the current week's plan
// @Description Returns the profile with its sessions, generating a plan if the week has none yet.
// @Tags Plan
// @Produce json
// @Success 200 {object} domain.PlayerProfile
// @Failure 404 {object} gin.H "No profile yet"
// @Failure 409 {object} gin.H "A generation is already running"
// @Failure 502 {object} gin.H "Plan generation failed"
// @Router /plan [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	profile, err := h.planService.GetWeeklyPlan(c.Request.Context(), userID)
	if err != nil {
		h.abortPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ToggleSession flips one session's completion mark.
func (h *PlanHandler) ToggleSession(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	profile, err := h.planService.ToggleSession(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.abortPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ReviewWeek godoc
// @Summary Finish the week
// @Description Merges stats, advances the week and installs next week's plan in one write.
// @Tags Plan
// @Accept json
// @Produce json
// @Param review body WeekReviewRequest true "Optional player feedback"
// @Success 200 {object} domain.PlayerProfile
// @Failure 422 {object} gin.H "Week still has unfinished sessions"
// @Failure 409 {object} gin.H "Superseded or a generation is already running"
// @Router /plan/week/review [post]
func (h *PlanHandler) ReviewWeek(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	// Feedback is optional; a bodyless request reviews without it.
	var req WeekReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.planService.FinishWeek(c.Request.Context(), userID, req.Feedback)
	if err != nil {
		h.abortPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// --- Exercise checklist ---

func exerciseIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 0 {
		abortWithError(c, http.StatusBadRequest, "exercise index must be a non-negative integer")
		return 0, false
	}
	return idx, true
}

// OpenSession starts the exercise checklist view for a session.
func (h *PlanHandler) OpenSession(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	view, err := h.planService.OpenSession(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.abortPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ToggleExercise flips one exercise in the open checklist.
func (h *PlanHandler) ToggleExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	idx, ok := exerciseIndex(c)
	if !ok {
		return
	}

	view, err := h.planService.ToggleExercise(c.Request.Context(), userID, c.Param("id"), idx)
	if err != nil {
		h.abortPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// FocusExercise moves the checklist's active exercise.
func (h *PlanHandler) FocusExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	idx, ok := exerciseIndex(c)
	if !ok {
		return
	}

	view, err := h.planService.FocusExercise(c.Request.Context(), userID, c.Param("id"), idx)
	if err != nil {
		h.abortPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// FinishSession closes the checklist and marks the session complete.
func (h *PlanHandler) FinishSession(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	profile, err := h.planService.FinishSession(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.abortPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
