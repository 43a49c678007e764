package handlers

import (
	"net/http"
	"strings"
	"time"

	"printshop_app_go/services"

	"github.com/labstack/echo/v4"
)

// UploadFile stores an order attachment sent as multipart field "file"
func (h *Handler) UploadFile(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}

	result, err := services.SaveOrderUpload(c.Request().Context(), h.Storage, fileHeader)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "File uploaded successfully",
		"file":    result,
	})
}

// GetFileInfo returns metadata for an uploaded file
func (h *Handler) GetFileInfo(c echo.Context) error {
	key, err := services.OrderFileKey(c.Param("filename"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}

	info, err := h.Storage.Stat(c.Request().Context(), key)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, info)
}

// DeleteFile removes an uploaded file
func (h *Handler) DeleteFile(c echo.Context) error {
	key, err := services.OrderFileKey(c.Param("filename"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}

	if err := h.Storage.Delete(c.Request().Context(), key); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "File deleted successfully"})
}

// signedURLExpiry is how long a download redirect stays valid
const signedURLExpiry = 15 * time.Minute

// DownloadFile sends an uploaded file to staff. Remote stores redirect to a signed URL,
// local storage streams the file.
func (h *Handler) DownloadFile(c echo.Context) error {
	fileName := c.Param("filename")
	key, err := services.OrderFileKey(fileName)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}
	ctx := c.Request().Context()

	url, err := h.Storage.GetSignedURL(ctx, key, signedURLExpiry)
	if err != nil {
		return httpError(c, err)
	}
	if strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://") {
		return c.Redirect(http.StatusFound, url)
	}

	body, contentType, err := h.Storage.Get(ctx, key)
	if err != nil {
		return httpError(c, err)
	}
	defer body.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return c.Stream(http.StatusOK, contentType, body)
}
