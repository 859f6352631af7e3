package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"gallery/internal/application/usecase/abstraction"
	"gallery/internal/domain/dto"
	"gallery/internal/domain/model"
	"gallery/internal/presentation"
)

type ListHandler struct {
	lister abstraction.Lister
}

func NewListHandler(lister abstraction.Lister) *ListHandler {
	return &ListHandler{
		lister: lister,
	}
}

// HandleList handles GET /images?page=&limit=&status=&search= requests.
func (h *ListHandler) HandleList(c echo.Context) error {
	page, err := parseIntQueryParam(c, presentation.PageQuery)
	if err != nil {
		return badRequest(c, err.Error())
	}

	limit, err := parseIntQueryParam(c, presentation.LimitQuery)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.lister.ListObjects(c.Request().Context(), dto.ListQuery{
		Page:   page,
		Limit:  limit,
		Status: model.Status(strings.ToUpper(c.QueryParam(presentation.StatusQuery))),
		Search: c.QueryParam(presentation.SearchQuery),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// parseIntQueryParam returns 0 when the parameter is absent.
func parseIntQueryParam(c echo.Context, name string) (int, error) {
	s := c.QueryParam(name)
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid '%s' value", name)
	}

	return n, nil
}
