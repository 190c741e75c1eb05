package handlers

import (
	"errors"
	"net/http"

	"unitask-api/internal/database"
	"unitask-api/internal/notify"

	"github.com/gin-gonic/gin"
)

// GetNotifications handles GET /api/notifications
func GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")

	notifications, err := notify.ListForUser(database.GetDB(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// MarkNotificationRead handles PUT /api/notifications/:id/read
// Only the owner can mark a notification read.
func MarkNotificationRead(c *gin.Context) {
	userID := c.GetString("user_id")
	notificationID := c.Param("id")

	if err := notify.MarkRead(database.GetDB(), notificationID, userID); err != nil {
		if errors.Is(err, notify.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification as read"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
}
