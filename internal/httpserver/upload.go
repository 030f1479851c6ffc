package httpserver

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mkravchenko/marketplace/internal/constants"
	"github.com/mkravchenko/marketplace/pkg/logging"
)

// Upload stores a single multipart file under the upload dir and answers
// its URL. The stored name is randomized; only the extension survives.
func (d *Deps) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload")

	fh, err := c.FormFile("file")
	if err != nil {
		l.Warn("upload_missing_file", "error", err)
		return respondError(c, http.StatusBadRequest, "file is required")
	}
	if fh.Size > constants.MaxFileSize {
		return respondError(c, http.StatusRequestEntityTooLarge, "file too large")
	}

	src, err := fh.Open()
	if err != nil {
		l.Error("upload_open_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}
	defer src.Close()

	if err := os.MkdirAll(d.UploadDir, 0o755); err != nil {
		l.Error("upload_dir_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}

	name := uuid.NewString() + filepath.Ext(fh.Filename)
	dst, err := os.Create(filepath.Join(d.UploadDir, name))
	if err != nil {
		l.Error("upload_create_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		l.Error("upload_write_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}

	return respondOK(c, http.StatusCreated, map[string]string{
		"url": "/uploads/" + name,
	})
}
