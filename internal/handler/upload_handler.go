package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chyrp/internal/service"
)

// UploadHandler handles file uploads.
type UploadHandler struct {
	svc service.UploadService
}

// NewUploadHandler creates an upload handler.
func NewUploadHandler(svc service.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// Upload godoc
// @Summary Upload a file
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File"
// @Success 201 {object} model.Upload
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Router /uploads [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	if err := h.svc.CanUpload(c.Request().Context(), authorization(c)); err != nil {
		return fail(c, err)
	}

	header, err := c.FormFile("file")
	if err != nil {
		return badRequest("missing file")
	}
	src, err := header.Open()
	if err != nil {
		return badRequest("unreadable file")
	}
	defer src.Close()

	upload, err := h.svc.Store(c.Request().Context(), authorization(c), service.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Content:     src,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, upload)
}

// ListUploads godoc
// @Summary Files uploaded by the caller
// @Tags uploads
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Upload
// @Failure 401 {object} errors.ErrorResponse
// @Router /uploads [get]
func (h *UploadHandler) ListUploads(c echo.Context) error {
	uploads, err := h.svc.List(c.Request().Context(), authorization(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, uploads)
}
