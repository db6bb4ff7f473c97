package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"logistics/internal/history"
	"logistics/internal/services"

	"github.com/gin-gonic/gin"
)

type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, response{Success: true, Message: message, Data: data})
}

// writeError maps service errors onto HTTP statuses. Unexpected errors are
// logged and hidden from the client.
func (h *APIHandler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
		message = "Internal server error"
	}
	c.AbortWithStatusJSON(status, response{Success: false, Message: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyExists), errors.Is(err, services.ErrInUse),
		errors.Is(err, history.ErrNothingToUndo), errors.Is(err, history.ErrNothingToRedo):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func badRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", services.ErrValidation, fmt.Sprintf(format, args...))
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid id %q", c.Param("id"))
	}
	return uint(id), nil
}

// bindJSON decodes the request body and reports malformed input as a
// validation error.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return badRequest("invalid request format: %v", err)
	}
	return nil
}
