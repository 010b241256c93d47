package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paintrack/backend/internal/service"
	"github.com/paintrack/backend/internal/session"
	"github.com/paintrack/backend/internal/storage"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// StatusFor maps a service or storage error to its HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidShareToken),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrArchiveDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as a JSON error response. Unexpected errors are
// attached to the gin context for the request logger and reported without
// detail.
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	resp := ErrorResponse{Error: err.Error()}

	var verr *storage.ValidationError
	switch {
	case errors.As(err, &verr):
		resp.Field = verr.Field
	case errors.Is(err, session.ErrNotFound):
		resp.Error = "invalid or expired session"
	case status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable:
		_ = c.Error(err)
		resp.Error = "Internal Server Error"
	}
	c.JSON(status, resp)
}
