package handlers

import (
	"net/http"
	"testing"

	"unitask-api/internal/models"
	"unitask-api/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestNotificationEndpoints(t *testing.T) {
	db := setupDB(t)
	alice := seedUser(t, db, "Alice", "alice@uni.edu")
	bob := seedUser(t, db, "Bob", "bob@uni.edu")

	notify.Notify(db, alice.ID, "You were assigned to \"Write report\"", "assignment")
	notify.Notify(db, alice.ID, "QA verdict for \"Write report\": PASS", "qa")
	notify.Notify(db, bob.ID, "Someone mentioned you", "mention")

	r := gin.New()
	r.Use(asUser(alice))
	r.GET("/api/notifications", GetNotifications)
	r.PUT("/api/notifications/:id/read", MarkNotificationRead)

	w := doJSON(t, r, http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Notifications []models.Notification `json:"notifications"`
		Count         int                   `json:"count"`
	}
	decodeBody(t, w, &resp)
	require.Equal(t, 2, resp.Count)
	for _, n := range resp.Notifications {
		require.Equal(t, alice.ID, n.UserID)
		require.False(t, n.IsRead)
	}

	w = doJSON(t, r, http.MethodPut, "/api/notifications/"+resp.Notifications[0].ID+"/read", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Notification
	require.NoError(t, db.Where("id = ?", resp.Notifications[0].ID).First(&stored).Error)
	require.True(t, stored.IsRead)

	// Someone else's notification reads as not found
	var bobs []models.Notification
	require.NoError(t, db.Where("user_id = ?", bob.ID).Find(&bobs).Error)
	w = doJSON(t, r, http.MethodPut, "/api/notifications/"+bobs[0].ID+"/read", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
