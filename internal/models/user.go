package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserRole represents the role of a user within their groups
type UserRole string

const (
	RoleLeader UserRole = "leader"
	RoleMember UserRole = "member"
)

// DigestFrequency controls how often a user receives digest emails
type DigestFrequency string

const (
	DigestDaily  DigestFrequency = "daily"
	DigestWeekly DigestFrequency = "weekly"
)

// User represents a user in the system
type User struct {
	ID             string                      `json:"id" gorm:"primaryKey"`
	Name           string                      `json:"name" gorm:"not null"`
	Email          string                      `json:"email" gorm:"unique;not null"`
	Password       string                      `json:"-" gorm:"not null"`
	Role           UserRole                    `json:"role" gorm:"default:'member'"`
	Skills         datatypes.JSONSlice[string] `json:"skills"`
	GithubUsername string                      `json:"githubUsername" gorm:"column:github_username"`

	// Notification and digest preferences
	EmailNotificationsEnabled bool            `json:"emailNotificationsEnabled" gorm:"column:email_notifications_enabled;default:true"`
	EmailDigestEnabled        bool            `json:"emailDigestEnabled" gorm:"column:email_digest_enabled;default:true"`
	EmailDigestFrequency      DigestFrequency `json:"emailDigestFrequency" gorm:"column:email_digest_frequency;default:'daily'"`

	// Calendar provider tokens (set via the calendar OAuth flow)
	CalendarAccessToken  string `json:"-" gorm:"column:calendar_access_token"`
	CalendarRefreshToken string `json:"-" gorm:"column:calendar_refresh_token"`

	gorm.Model
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}

// UserSummary is the safe subset of a user embedded in populated responses.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Summary maps a user to its safe response payload.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
