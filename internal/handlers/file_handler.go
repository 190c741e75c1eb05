package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"unitask-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxUploadBytes caps chat attachments at 10 MB.
const maxUploadBytes = 10 << 20

var uploadDir = "uploads"

// SetUploadDir overrides where uploaded attachments are stored on disk.
func SetUploadDir(dir string) {
	if dir != "" {
		uploadDir = dir
	}
}

// UploadDir returns the directory attachments are stored in and served from.
func UploadDir() string {
	return uploadDir
}

// UploadFile handles POST /api/files/upload
// Accepts a multipart "file" field and returns the attachment descriptor to
// embed in a chat message. Files are stored under a random name; the original
// name only travels in the descriptor.
func UploadFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if fh.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
		return
	}

	stored := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, filepath.Join(uploadDir, stored)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	c.JSON(http.StatusCreated, models.Attachment{
		Filename:     stored,
		OriginalName: filepath.Base(fh.Filename),
		MimeType:     fh.Header.Get("Content-Type"),
		Size:         fh.Size,
		URL:          "/uploads/" + stored,
	})
}
