package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"unitask-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func uploadRouter(u models.User) *gin.Engine {
	r := gin.New()
	r.Use(asUser(u))
	r.POST("/api/files/upload", UploadFile)
	return r
}

// useTempUploadDir points uploads at a per-test directory.
func useTempUploadDir(t *testing.T) string {
	t.Helper()
	prev := UploadDir()
	dir := t.TempDir()
	SetUploadDir(dir)
	t.Cleanup(func() { SetUploadDir(prev) })
	return dir
}

func doUpload(t *testing.T, r *gin.Engine, field, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadFile_StoresFileAndReturnsDescriptor(t *testing.T) {
	db := setupDB(t)
	alice := seedUser(t, db, "Alice", "alice@uni.edu")
	dir := useTempUploadDir(t)

	w := doUpload(t, uploadRouter(alice), "file", "notes.pdf", "draft chapter one")
	require.Equal(t, http.StatusCreated, w.Code)

	var att models.Attachment
	decodeBody(t, w, &att)
	require.Equal(t, "notes.pdf", att.OriginalName)
	require.Equal(t, int64(len("draft chapter one")), att.Size)
	require.NotEqual(t, "notes.pdf", att.Filename)
	require.Equal(t, ".pdf", filepath.Ext(att.Filename))
	require.Equal(t, "/uploads/"+att.Filename, att.URL)

	stored, err := os.ReadFile(filepath.Join(dir, att.Filename))
	require.NoError(t, err)
	require.Equal(t, "draft chapter one", string(stored))
}

func TestUploadFile_MissingFileField(t *testing.T) {
	db := setupDB(t)
	alice := seedUser(t, db, "Alice", "alice@uni.edu")
	useTempUploadDir(t)

	w := doUpload(t, uploadRouter(alice), "document", "notes.pdf", "x")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

// TestUploadFile_AttachmentOnlyMessage covers the upload-then-send flow: a
// message with no text is valid as long as it carries an attachment.
func TestUploadFile_AttachmentOnlyMessage(t *testing.T) {
	db := setupDB(t)
	alice := seedUser(t, db, "Alice", "alice@uni.edu")
	group := seedGroup(t, db, alice)
	useTempUploadDir(t)

	w := doUpload(t, uploadRouter(alice), "file", "slides.pptx", "deck")
	require.Equal(t, http.StatusCreated, w.Code)
	var att models.Attachment
	decodeBody(t, w, &att)

	w = doJSON(t, chatRouter(alice), http.MethodPost, "/api/chat/"+group.ID+"/messages", gin.H{
		"content":     "",
		"attachments": []models.Attachment{att},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var msg models.Message
	decodeBody(t, w, &msg)
	require.Empty(t, msg.Content)
	require.Len(t, msg.Attachments, 1)
	require.Equal(t, "slides.pptx", msg.Attachments[0].OriginalName)
	require.Equal(t, att.URL, msg.Attachments[0].URL)
}
