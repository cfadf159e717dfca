package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KurirHub/courier_management_app/internal/apperrors"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusForError maps the error class to an HTTP status code.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrPrecondition),
		errors.Is(err, apperrors.ErrCapacityExceeded):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrPersistence),
		errors.Is(err, apperrors.ErrInternal):
		return http.StatusInternalServerError
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// respondWithError writes the error to the response, hiding internals behind
// a generic message on 5xx.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, operation string) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Operation failed", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: "Failed to " + operation})
		return
	}
	logger.Warn("Request rejected", slog.String("operation", operation), slog.String("error", err.Error()))
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
