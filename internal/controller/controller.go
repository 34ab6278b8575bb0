package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"skillvouch-backend/internal/apperr"
)

// respondError translates service sentinels to HTTP statuses in one place.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrInvalidSubmission),
		errors.Is(err, apperr.ErrSelfRequest):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrRequestNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrDuplicateSkill),
		errors.Is(err, apperr.ErrEmailTaken),
		errors.Is(err, apperr.ErrInvalidTransition),
		errors.Is(err, apperr.ErrRequestNotCompleted):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrQuizGenerationFailed):
		status = http.StatusBadGateway
	case errors.Is(err, apperr.ErrServiceUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// currentUserID reads the authenticated user from the request context set by
// the auth middleware.
func currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return 0, false
	}
	userID, ok := value.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return 0, false
	}
	return userID, true
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
