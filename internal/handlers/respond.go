package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/stackit/backend/internal/middleware"
	"github.com/emilythestrangee/stackit/backend/internal/models"
)

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "data": items})
}

func respondFail(c *gin.Context, status int, message string, details any) {
	body := gin.H{"success": false, "error": message}
	if details != nil {
		body["details"] = details
	}
	c.JSON(status, body)
}

// statusFor maps an error class to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrForbidden), errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrInvalid), errors.Is(err, models.ErrAlreadyVoted), errors.Is(err, models.ErrMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err in the envelope. Causes of 5xx are logged, never returned.
func (b base) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		b.log.Error().
			Err(err).
			Str("request_id", middleware.RequestIDFromContext(c)).
			Str("route", c.FullPath()).
			Msg("request failed")
		_ = c.Error(err)
		respondFail(c, status, "Server Error", nil)
		return
	}

	msg := err.Error()
	var appErr *models.Error
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	respondFail(c, status, msg, nil)
}

// actor returns the authenticated caller or writes 401.
func actor(c *gin.Context) (string, bool) {
	id, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondFail(c, http.StatusUnauthorized, "Not authorized, no token", nil)
		return "", false
	}
	return id, true
}
