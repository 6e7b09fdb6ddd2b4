package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConfiguration):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError writes the error response for a failed service call. Internal errors are
// logged in full but reported with a generic message.
func respondWithError(c *gin.Context, err error, failureMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error(failureMsg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": failureMsg})
		return
	}
	logger.Warn(failureMsg, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

// currentUserID returns the authenticated user, answering 401 when there is none.
func currentUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// bindJSON binds the request body, answering 400 on failure.
func bindJSON(c *gin.Context, req any, what string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind JSON for "+what, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return false
	}
	return true
}
