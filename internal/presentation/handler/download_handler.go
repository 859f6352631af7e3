package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gallery/internal/application/usecase/abstraction"
	"gallery/internal/presentation"
)

type DownloadHandler struct {
	downloader abstraction.Downloader
}

func NewDownloadHandler(downloader abstraction.Downloader) *DownloadHandler {
	return &DownloadHandler{
		downloader: downloader,
	}
}

// HandleDownload handles GET /images/:id/download requests.
func (h *DownloadHandler) HandleDownload(c echo.Context) error {
	link, err := h.downloader.GetDownloadURL(c.Request().Context(), c.Param(presentation.IDParam))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, link)
}
