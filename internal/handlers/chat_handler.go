package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"unitask-api/internal/chat"
	"unitask-api/internal/database"
	"unitask-api/internal/models"
	"unitask-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

func chatErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, chat.ErrGroupNotFound):
		return http.StatusNotFound, "Group not found"
	case errors.Is(err, chat.ErrMessageNotFound):
		return http.StatusNotFound, "Message not found"
	case errors.Is(err, chat.ErrNotMember):
		return http.StatusForbidden, "You are not a member of this group"
	case errors.Is(err, chat.ErrEmptyMessage):
		return http.StatusBadRequest, "Message content is required"
	}
	return http.StatusInternalServerError, "Chat operation failed"
}

// GetGroupMessages handles GET /api/chat/:groupId/messages
// Paginated, newest page first, oldest-first within the page.
func GetGroupMessages(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("groupId")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	messages, total, err := chat.ListMessages(database.GetDB(), groupID, userID, page, limit)
	if err != nil {
		status, msg := chatErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":      messages,
		"currentPage":   page,
		"totalPages":    totalPages,
		"totalMessages": total,
	})
}

// SendMessageRequest represents the HTTP message payload
type SendMessageRequest struct {
	Content     string              `json:"content"`
	Attachments []models.Attachment `json:"attachments"`
}

// SendMessage handles POST /api/chat/:groupId/messages
// The HTTP fallback for clients without a live connection; the saved message
// is still fanned out to the group room.
func SendMessage(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("groupId")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := chat.PostMessage(database.GetDB(), groupID, userID, req.Content, req.Attachments)
	if err != nil {
		status, errMsg := chatErrorStatus(err)
		c.JSON(status, gin.H{"error": errMsg})
		return
	}

	broadcastNewMessage(msg)
	c.JSON(http.StatusCreated, msg)
}

// broadcastNewMessage fans the saved message out to everyone in the group
// room, sender included.
func broadcastNewMessage(msg *models.Message) {
	payload, err := json.Marshal(gin.H{"event": "new-message", "data": msg})
	if err != nil {
		return
	}
	realtime.GetHub().Broadcast(msg.GroupID, payload)
}

// MarkMessagesRead handles PATCH /api/chat/:groupId/read
func MarkMessagesRead(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("groupId")

	if _, err := chat.LoadGroupForMember(database.GetDB(), groupID, userID); err != nil {
		status, msg := chatErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	if err := chat.MarkAllRead(database.GetDB(), groupID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read"})
}

// GetUnreadCount handles GET /api/chat/:groupId/unread
func GetUnreadCount(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("groupId")

	if _, err := chat.LoadGroupForMember(database.GetDB(), groupID, userID); err != nil {
		status, msg := chatErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	count, err := chat.UnreadCount(database.GetDB(), groupID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get unread count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unreadCount": count})
}

// GetMentions handles GET /api/chat/:groupId/mentions
func GetMentions(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("groupId")

	messages, err := chat.ListMentions(database.GetDB(), groupID, userID)
	if err != nil {
		status, msg := chatErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

// ReactRequest represents the reaction toggle payload
type ReactRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// ToggleReaction handles POST /api/chat/messages/:messageId/react
func ToggleReaction(c *gin.Context) {
	userID := c.GetString("user_id")
	messageID := c.Param("messageId")

	var req ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := chat.ToggleReaction(database.GetDB(), messageID, userID, req.Emoji)
	if err != nil {
		status, errMsg := chatErrorStatus(err)
		c.JSON(status, gin.H{"error": errMsg})
		return
	}

	c.JSON(http.StatusOK, msg)
}
