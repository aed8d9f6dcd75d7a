package api

import (
	"net/http"

	"nextlevel/academy-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionHandler routes page loads and owns login session teardown.
type SessionHandler struct {
	profileService service.ProfileService
	planService    service.PlanService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(profileService service.ProfileService, planService service.PlanService) *SessionHandler {
	return &SessionHandler{profileService: profileService, planService: planService}
}

type ViewResponse struct {
	View string `json:"view"`
}

// View resolves which screen an initial page load should show. Works for
// anonymous visitors too; a missing or invalid token simply routes to the
// landing page.
func (h *SessionHandler) View(c *gin.Context) {
	view := h.profileService.ResolveView(c.Request.Context(), optionalUserID(c))
	c.JSON(http.StatusOK, ViewResponse{View: string(view)})
}

// Start resolves the landing page's start action.
func (h *SessionHandler) Start(c *gin.Context) {
	view := h.profileService.ResolveStartView(c.Request.Context(), optionalUserID(c))
	c.JSON(http.StatusOK, ViewResponse{View: string(view)})
}

// Logout discards the player's server-side view state. The JWT itself is
// stateless; the client drops it.
func (h *SessionHandler) Logout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	h.planService.Logout(userID)
	c.JSON(http.StatusOK, ViewResponse{View: "landing"})
}
