package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gallery/internal/application/usecase/abstraction"
	"gallery/internal/domain/dto"
	"gallery/internal/presentation"
)

type UpdateHandler struct {
	updater abstraction.Updater
}

func NewUpdateHandler(updater abstraction.Updater) *UpdateHandler {
	return &UpdateHandler{
		updater: updater,
	}
}

// HandleUpdate handles PATCH /images/:id requests with a JSON body.
func (h *UpdateHandler) HandleUpdate(c echo.Context) error {
	var req dto.UpdateObjectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	obj, err := h.updater.UpdateObject(c.Request().Context(), c.Param(presentation.IDParam), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, obj)
}
