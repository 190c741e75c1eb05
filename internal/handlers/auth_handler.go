package handlers

import (
	"errors"
	"net/http"
	"strings"

	"unitask-api/internal/auth"
	"unitask-api/internal/database"
	"unitask-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6"`
	Role     models.UserRole `json:"role"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the token response for register and login
type AuthResponse struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

// Register handles POST /api/auth/register
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing user"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}

	user := models.User{
		ID:                        uuid.NewString(),
		Name:                      req.Name,
		Email:                     email,
		Password:                  hash,
		Role:                      role,
		EmailNotificationsEnabled: true,
		EmailDigestEnabled:        true,
		EmailDigestFrequency:      models.DigestDaily,
	}
	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: user.Summary()})
}

// Login handles POST /api/auth/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var user models.User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user.Summary()})
}

// GetMe handles GET /api/auth/me
func GetMe(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := database.GetDB().Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfileRequest represents the profile update payload. All fields are
// optional; absent fields are left untouched.
type UpdateProfileRequest struct {
	Name                      *string                 `json:"name"`
	GithubUsername            *string                 `json:"githubUsername"`
	Skills                    *[]string               `json:"skills"`
	EmailNotificationsEnabled *bool                   `json:"emailNotificationsEnabled"`
	EmailDigestEnabled        *bool                   `json:"emailDigestEnabled"`
	EmailDigestFrequency      *models.DigestFrequency `json:"emailDigestFrequency"`
}

// UpdateProfile handles PUT /api/auth/profile
func UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateProfileRequest
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

	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.GithubUsername != nil {
		user.GithubUsername = *req.GithubUsername
	}
	if req.Skills != nil {
		user.Skills = datatypes.JSONSlice[string](*req.Skills)
	}
	if req.EmailNotificationsEnabled != nil {
		user.EmailNotificationsEnabled = *req.EmailNotificationsEnabled
	}
	if req.EmailDigestEnabled != nil {
		user.EmailDigestEnabled = *req.EmailDigestEnabled
	}
	if req.EmailDigestFrequency != nil {
		if *req.EmailDigestFrequency != models.DigestDaily && *req.EmailDigestFrequency != models.DigestWeekly {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid digest frequency"})
			return
		}
		user.EmailDigestFrequency = *req.EmailDigestFrequency
	}

	if err := db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}
