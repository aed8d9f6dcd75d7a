package api

import (
	"errors"
	"fmt"
	"net/http"

	"nextlevel/academy-app/internal/domain"
	"nextlevel/academy-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler exposes the coach chat.
type ChatHandler struct {
	planService service.PlanService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(planService service.PlanService) *ChatHandler {
	return &ChatHandler{planService: planService}
}

type ChatRequest struct {
	// History is the client-held transcript; the server keeps no chat
	// state.
	History []domain.ChatMessage `json:"history"`
	Message string               `json:"message" binding:"required"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// Chat answers one coach-chat turn.
func (h *ChatHandler) Chat(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	reply, err := h.planService.Chat(c.Request.Context(), userID, req.History, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithProviderError(c, err)
		return
	}
	c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}
