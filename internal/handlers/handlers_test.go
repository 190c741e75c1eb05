package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"unitask-api/internal/auth"
	"unitask-api/internal/database"
	"unitask-api/internal/models"
	"unitask-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// setupDB wires a fresh in-memory database into the package singleton.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) models.User {
	t.Helper()
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	u := models.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.RoleMember,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedGroup(t *testing.T, db *gorm.DB, leader models.User, members ...models.User) models.Group {
	t.Helper()
	ids := datatypes.JSONSlice[string]{leader.ID}
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	g := models.Group{
		ID:         uuid.NewString(),
		Name:       "Capstone",
		LeaderID:   leader.ID,
		MemberIDs:  ids,
		InviteCode: strings.ToUpper(uuid.NewString()[:6]),
	}
	require.NoError(t, db.Create(&g).Error)
	return g
}

// asUser impersonates an authenticated request, bypassing the JWT middleware.
func asUser(u models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", u.ID)
		c.Set("user_name", u.Name)
		c.Next()
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doBearerJSON sends a request through a router that runs the real JWT
// middleware.
func doBearerJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}
