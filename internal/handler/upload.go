package handler

import (
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/domain"
)

// readUpload reads a multipart form file field fully into memory. A missing
// field maps to ErrMissingUpload, anything over maxBytes to
// ErrUploadTooLarge.
func readUpload(c *gin.Context, field string, maxBytes int64) ([]byte, error) {
	file, _, err := c.Request.FormFile(field)
	if err != nil {
		return nil, domain.ErrMissingUpload
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, domain.ErrUploadTooLarge
	}
	return data, nil
}

// formBool interprets the usual checkbox values as true.
func formBool(c *gin.Context, field string) bool {
	switch c.PostForm(field) {
	case "1", "true", "on", "yes", "sim":
		return true
	}
	return false
}
