package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"gallery/internal/application/usecase/abstraction"
	"gallery/internal/domain/dto"
	"gallery/internal/presentation"
)

type UploadHandler struct {
	creator abstraction.Creator
}

func NewUploadHandler(creator abstraction.Creator) *UploadHandler {
	return &UploadHandler{
		creator: creator,
	}
}

// HandleUpload handles multipart POST /images requests.
func (h *UploadHandler) HandleUpload(c echo.Context) error {
	fh, err := c.FormFile(presentation.FileField)
	if err != nil {
		return badRequest(c, "file is required")
	}

	file, err := fh.Open()
	if err != nil {
		return badRequest(c, "unreadable file")
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		return badRequest(c, "unreadable file")
	}

	obj, err := h.creator.CreateObject(c.Request().Context(), dto.CreateObjectRequest{
		Title:        c.FormValue(presentation.TitleField),
		Description:  c.FormValue(presentation.DescriptionField),
		OriginalName: fh.Filename,
		MimeType:     fh.Header.Get(echo.HeaderContentType),
		Body:         body,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, obj)
}
