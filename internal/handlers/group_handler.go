package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"unitask-api/internal/chat"
	"unitask-api/internal/database"
	"unitask-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateGroupRequest represents the group creation payload
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// newInviteCode generates a 6-character uppercase hex invite code.
func newInviteCode() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// CreateGroup handles POST /api/groups/create
// The creator becomes the leader and first member.
func CreateGroup(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code, err := newInviteCode()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate invite code"})
		return
	}

	group := models.Group{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		LeaderID:    userID,
		MemberIDs:   datatypes.JSONSlice[string]{userID},
		InviteCode:  code,
	}
	if err := database.GetDB().Create(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, group)
}

// JoinGroupRequest represents the join payload
type JoinGroupRequest struct {
	InviteCode string `json:"inviteCode" binding:"required"`
}

// JoinGroup handles POST /api/groups/join
func JoinGroup(c *gin.Context) {
	userID := c.GetString("user_id")

	var req JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	var group models.Group
	if err := db.Where("invite_code = ?", strings.ToUpper(strings.TrimSpace(req.InviteCode))).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up group"})
		}
		return
	}

	if group.HasMember(userID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Already a member"})
		return
	}

	group.MemberIDs = append(group.MemberIDs, userID)
	if err := db.Model(&group).Update("member_ids", group.MemberIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join group"})
		return
	}

	c.JSON(http.StatusOK, group)
}

// GetMyGroups handles GET /api/groups/my-groups
// Returns every group the user belongs to, with member summaries populated.
func GetMyGroups(c *gin.Context) {
	userID := c.GetString("user_id")
	db := database.GetDB()

	var groups []models.Group
	if err := db.Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	mine := make([]models.Group, 0)
	for _, g := range groups {
		if !g.HasMember(userID) {
			continue
		}
		members, err := chat.GroupMembers(db, &g)
		if err == nil {
			for _, m := range members {
				g.Members = append(g.Members, m.Summary())
			}
		}
		mine = append(mine, g)
	}

	c.JSON(http.StatusOK, gin.H{
		"groups": mine,
		"count":  len(mine),
	})
}

// SetGroupRepoRequest represents the repo-link payload
type SetGroupRepoRequest struct {
	GithubRepo string `json:"githubRepo" binding:"required"`
}

// SetGroupRepo handles PUT /api/groups/:id/repo
// Only the leader can link a repository; it feeds the weekly digest's commit
// counts.
func SetGroupRepo(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("id")

	var req SetGroupRepoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	var group models.Group
	if err := db.Where("id = ?", groupID).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch group"})
		}
		return
	}

	if group.LeaderID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group leader can link a repository"})
		return
	}

	if err := db.Model(&group).Update("github_repo", req.GithubRepo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group"})
		return
	}
	group.GithubRepo = req.GithubRepo

	c.JSON(http.StatusOK, group)
}
