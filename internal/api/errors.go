package api

import (
	"errors"
	"net/http"

	"nextlevel/academy-app/internal/ai"
	"nextlevel/academy-app/internal/service"

	"github.com/gin-gonic/gin"
)

// abortWithProviderError maps generation failures onto HTTP statuses:
// busy players get 409, rate limiting surfaces as 503 so the client backs
// off, everything else from the provider is a 502.
func abortWithProviderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGenerationInFlight):
		abortWithError(c, http.StatusConflict, err.Error())
	case ai.IsRateLimited(err):
		abortWithError(c, http.StatusServiceUnavailable, "The coach is busy right now, try again shortly")
	case errors.Is(err, ai.ErrMalformedResponse):
		abortWithError(c, http.StatusBadGateway, "The coach returned an unusable answer")
	default:
		var apiErr *ai.APIError
		if errors.As(err, &apiErr) {
			abortWithError(c, http.StatusBadGateway, "The coach is unavailable")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
