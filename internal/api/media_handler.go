package api

import (
	"errors"
	"fmt"
	"net/http"

	"nextlevel/academy-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaHandler manages assessment clip uploads.
type MediaHandler struct {
	mediaService service.MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

type RequestUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// RequestUpload godoc
// @Summary Request an assessment clip upload slot
// @Description Creates a pending clip record and returns a presigned PUT URL.
// @Tags Media
// @Accept json
// @Produce json
// @Param clip body RequestUploadRequest true "Clip metadata"
// @Success 201 {object} service.PendingUpload
// @Failure 400 {object} gin.H "Invalid input or unsupported content type"
// @Router /assessment/clips [post]
func (h *MediaHandler) RequestUpload(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req RequestUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	pending, err := h.mediaService.RequestUpload(c.Request.Context(), userID, req.FileName, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMediaType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to create upload slot")
		return
	}
	c.JSON(http.StatusCreated, pending)
}

// ConfirmUpload marks a clip as uploaded after the client's PUT succeeded.
func (h *MediaHandler) ConfirmUpload(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	uploadID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid upload ID format")
		return
	}

	upload, err := h.mediaService.ConfirmUpload(c.Request.Context(), userID, uploadID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrUploadNotOwned):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusConflict, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, upload)
}

// ListClips returns the player's confirmed clips with download URLs.
func (h *MediaHandler) ListClips(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	clips, err := h.mediaService.ListClips(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list clips")
		return
	}
	c.JSON(http.StatusOK, clips)
}
