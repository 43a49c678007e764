package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"printshop_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, path, filename string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

var testPDF = append([]byte("%PDF-1.4\n"), make([]byte, 64)...)

func TestUploadHandlers(t *testing.T) {
	app := setupApp(t)

	var fileName string

	t.Run("Public upload", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.e.ServeHTTP(rec, multipartRequest(t, "/api/upload", "flyer.pdf", testPDF))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var body struct {
			Message string `json:"message"`
			File    struct {
				FileName     string `json:"filename"`
				OriginalName string `json:"originalName"`
				Size         int64  `json:"size"`
				MimeType     string `json:"mimetype"`
			} `json:"file"`
		}
		decode(t, rec, &body)
		assert.Equal(t, "File uploaded successfully", body.Message)
		assert.Equal(t, "flyer.pdf", body.File.OriginalName)
		assert.Equal(t, int64(len(testPDF)), body.File.Size)
		assert.Equal(t, "application/pdf", body.File.MimeType)
		fileName = body.File.FileName
	})

	t.Run("Admin upload requires a token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.e.ServeHTTP(rec, multipartRequest(t, "/api/upload/admin", "flyer.pdf", testPDF))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Missing file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.e.ServeHTTP(rec, multipartRequest(t, "/api/upload", "", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Rejected type", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.e.ServeHTTP(rec, multipartRequest(t, "/api/upload", "run.exe", []byte("MZ")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("File info", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/upload/"+fileName, nil, false)
		require.Equal(t, http.StatusOK, rec.Code)

		var info map[string]interface{}
		decode(t, rec, &info)
		assert.Equal(t, fileName, info["filename"])
		assert.Equal(t, float64(len(testPDF)), info["size"])
	})

	t.Run("Download", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/upload/"+fileName+"/download", nil, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = app.do(http.MethodGet, "/api/upload/"+fileName+"/download", nil, true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, testPDF, rec.Body.Bytes())
		assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
		assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), fileName)
	})

	t.Run("Delete", func(t *testing.T) {
		rec := app.do(http.MethodDelete, "/api/upload/"+fileName, nil, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = app.do(http.MethodDelete, "/api/upload/"+fileName, nil, true)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = app.do(http.MethodGet, "/api/upload/"+fileName, nil, false)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = app.do(http.MethodDelete, "/api/upload/"+fileName, nil, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = app.do(http.MethodGet, "/api/upload/"+fileName+"/download", nil, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Foreign names are never resolved", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/upload/..%2F..%2Fetc%2Fpasswd", nil, false)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// signingStorage behaves like a remote store that hands out presigned URLs
type signingStorage struct {
	services.StorageProvider
}

func (signingStorage) GetSignedURL(_ context.Context, key string, expiration time.Duration) (string, error) {
	return "https://files.example.com/" + key + "?expires=" + expiration.String(), nil
}

func TestDownloadRedirectsToSignedURL(t *testing.T) {
	app := setupApp(t)
	app.handler.Storage = signingStorage{StorageProvider: app.handler.Storage}
	app.e = newEcho(app.handler)

	rec := app.do(http.MethodGet, "/api/upload/order-1700000000000-42.pdf/download", nil, true)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://files.example.com/orders/order-1700000000000-42.pdf?expires=15m0s", rec.Header().Get(echo.HeaderLocation))

	rec = app.do(http.MethodGet, "/api/upload/not-ours.pdf/download", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
