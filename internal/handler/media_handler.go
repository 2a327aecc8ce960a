package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"findhouse/internal/errors"
	"findhouse/internal/service"
)

// MediaHandler handles image upload and retrieval endpoints.
type MediaHandler struct {
	mediaService service.MediaService
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// UploadResponse represents a successful upload.
type UploadResponse struct {
	Message string              `json:"message"`
	Images  []service.ImageInfo `json:"images"`
}

// Upload godoc
// @Summary Upload up to 10 listing images
// @Tags media
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param images formData file true "Image files"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /media/upload [post]
func (h *MediaHandler) Upload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "request must be multipart/form-data",
			Code:  "INVALID_MULTIPART",
		})
	}

	files := form.File["images"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "no files uploaded",
			Code:  "NO_FILES",
		})
	}
	if len(files) > service.MaxUploadFiles {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "too many files",
			Code:  "TOO_MANY_FILES",
		})
	}

	uploaded := make([]service.ImageInfo, 0, len(files))
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
				Error: "failed to read upload",
				Code:  "UPLOAD_FAILED",
			})
		}

		info, err := h.mediaService.SaveUpload(
			c.Request().Context(),
			file.Filename,
			file.Header.Get("Content-Type"),
			file.Size,
			src,
		)
		src.Close()
		if err != nil {
			httpErr := errors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		uploaded = append(uploaded, *info)
	}

	return c.JSON(http.StatusOK, UploadResponse{
		Message: "images uploaded",
		Images:  uploaded,
	})
}

// GetImage godoc
// @Summary Stream a stored image
// @Tags media
// @Produce png
// @Param filename path string true "Image filename"
// @Success 200 {file} file
// @Failure 404 {object} errors.ErrorResponse
// @Router /media/images/{filename} [get]
func (h *MediaHandler) GetImage(c echo.Context) error {
	path, err := h.mediaService.ImagePath(c.Param("filename"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.File(path)
}

// GetImageInfo godoc
// @Summary Get metadata for a stored image
// @Tags media
// @Produce json
// @Param filename path string true "Image filename"
// @Success 200 {object} service.ImageInfo
// @Failure 404 {object} errors.ErrorResponse
// @Router /media/images/{filename}/info [get]
func (h *MediaHandler) GetImageInfo(c echo.Context) error {
	info, err := h.mediaService.Info(c.Param("filename"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, info)
}

// DeleteImage godoc
// @Summary Delete a stored image
// @Tags media
// @Produce json
// @Security BearerAuth
// @Param filename path string true "Image filename"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /media/images/{filename} [delete]
func (h *MediaHandler) DeleteImage(c echo.Context) error {
	if err := h.mediaService.Delete(c.Request().Context(), c.Param("filename")); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "image deleted",
	})
}

// ListImages godoc
// @Summary List all stored images
// @Tags media
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /media/images [get]
func (h *MediaHandler) ListImages(c echo.Context) error {
	images, err := h.mediaService.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"images": images,
	})
}
