package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondWithError answers with the status mapped from err. Client errors
// carry the service message; anything else is logged and answered with
// fallback so store details never leak.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}

	msg := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	logger.Warn(fallback, slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": msg})
}
