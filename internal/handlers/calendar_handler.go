package handlers

import (
	"errors"
	"net/http"
	"time"

	"unitask-api/internal/calendar"
	"unitask-api/internal/database"
	"unitask-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var calendarProvider calendar.Provider

// SetCalendarProvider wires the calendar provider used by the calendar
// endpoints.
func SetCalendarProvider(p calendar.Provider) {
	calendarProvider = p
}

// GetCalendarAuthURL handles GET /api/calendar/auth-url
// The user id travels in the OAuth state so the callback can find the user.
func GetCalendarAuthURL(c *gin.Context) {
	userID := c.GetString("user_id")
	c.JSON(http.StatusOK, gin.H{"url": calendarProvider.AuthURL(userID)})
}

// CalendarCallback handles GET /api/calendar/callback
// Exchanges the code and stores the provider tokens on the user.
func CalendarCallback(c *gin.Context) {
	code := c.Query("code")
	userID := c.Query("state")
	if code == "" || userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing code or state"})
		return
	}

	tokens, err := calendarProvider.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token exchange failed"})
		return
	}

	db := database.GetDB()
	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"calendar_access_token":  tokens.AccessToken,
		"calendar_refresh_token": tokens.RefreshToken,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Calendar linked"})
}

// GetCalendarStatus handles GET /api/calendar/status
func GetCalendarStatus(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := database.GetDB().Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"linked": user.CalendarAccessToken != ""})
}

// SyncTaskRequest represents the calendar sync payload
type SyncTaskRequest struct {
	TaskID string `json:"taskId" binding:"required"`
}

// SyncTaskToCalendar handles POST /api/calendar/sync-task
// Pushes a task deadline into the user's linked calendar as a one-hour event.
func SyncTaskToCalendar(c *gin.Context) {
	userID := c.GetString("user_id")

	var req SyncTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.CalendarAccessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Calendar account is not linked"})
		return
	}

	var task models.Task
	if err := db.Where("id = ?", req.TaskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		}
		return
	}
	if task.Deadline == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task has no deadline"})
		return
	}

	event := calendar.Event{
		Title:       "Deadline: " + task.Title,
		Description: task.Description,
		Start:       *task.Deadline,
		End:         task.Deadline.Add(time.Hour),
	}
	tokens := calendar.Tokens{
		AccessToken:  user.CalendarAccessToken,
		RefreshToken: user.CalendarRefreshToken,
	}
	if err := calendarProvider.CreateEvent(c.Request.Context(), tokens, event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create calendar event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task synced to calendar"})
}

// SyncDeadlines handles POST /api/calendar/sync
// Pushes every deadline among the caller's assigned tasks into the linked
// calendar and reports how many events were created.
func SyncDeadlines(c *gin.Context) {
	userID := c.GetString("user_id")
	db := database.GetDB()

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.CalendarAccessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Calendar account is not linked"})
		return
	}

	var tasks []models.Task
	if err := db.Where("assignee_id = ? AND deadline IS NOT NULL", userID).Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	tokens := calendar.Tokens{
		AccessToken:  user.CalendarAccessToken,
		RefreshToken: user.CalendarRefreshToken,
	}
	synced := 0
	for _, task := range tasks {
		event := calendar.Event{
			Title:       "Deadline: " + task.Title,
			Description: task.Description,
			Start:       *task.Deadline,
			End:         task.Deadline.Add(time.Hour),
		}
		if err := calendarProvider.CreateEvent(c.Request.Context(), tokens, event); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":  "Calendar sync failed",
				"synced": synced,
			})
			return
		}
		synced++
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Deadlines synced to calendar",
		"synced":  synced,
	})
}
