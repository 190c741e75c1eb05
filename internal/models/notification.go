package models

import (
	"gorm.io/gorm"
)

// Notification is a persisted alert for a single user. Notifications are
// immutable once created except for the read flag.
type Notification struct {
	ID      string `json:"id" gorm:"primaryKey"`
	UserID  string `json:"user" gorm:"column:user_id;not null;index"`
	Message string `json:"message" gorm:"not null"`
	Type    string `json:"type" gorm:"default:'info'"`
	IsRead  bool   `json:"isRead" gorm:"column:is_read;default:false"`

	gorm.Model
}

// TableName specifies the table name for Notification Model
func (Notification) TableName() string {
	return "notifications"
}
