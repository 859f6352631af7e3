package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"gallery/internal/domain/model"
	"gallery/internal/presentation"
	"gallery/pkg/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case model.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrNotReady), errors.Is(err, model.ErrStatusConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrQueueUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	status := statusFor(err)

	reason := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "path", c.Path(), "err", err)
		reason = "internal error"
	}

	c.Response().Header().Set(presentation.ReasonTag, reason)

	return c.JSON(status, errorResponse{Error: reason})
}

func badRequest(c echo.Context, reason string) error {
	c.Response().Header().Set(presentation.ReasonTag, reason)

	return c.JSON(http.StatusBadRequest, errorResponse{Error: reason})
}
