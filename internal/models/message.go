package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reaction groups the users who reacted to a message with one emoji.
// A given emoji appears at most once per message.
type Reaction struct {
	Emoji   string   `json:"emoji"`
	UserIDs []string `json:"users"`
}

// ReactionList is stored as a JSON column on the message
type ReactionList []Reaction

// Attachment describes a file attached to a message
type Attachment struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

// AttachmentList is stored as a JSON column on the message
type AttachmentList []Attachment

// Message represents a chat message in a group channel. Messages are
// append-only; there is no edit or delete.
type Message struct {
	ID          string                      `json:"id" gorm:"primaryKey"`
	SenderID    string                      `json:"sender" gorm:"column:sender_id;not null"`
	GroupID     string                      `json:"group" gorm:"column:group_id;not null;index"`
	Content     string                      `json:"content"`
	Mentions    datatypes.JSONSlice[string] `json:"mentions"`
	Reactions   ReactionList                `json:"reactions" gorm:"serializer:json"`
	Attachments AttachmentList              `json:"attachments" gorm:"serializer:json"`
	ReadBy      datatypes.JSONSlice[string] `json:"readBy" gorm:"column:read_by"`
	Timestamp   time.Time                   `json:"timestamp" gorm:"index"`

	// Populated sender summary for responses; not stored
	Sender *UserSummary `json:"senderDetails,omitempty" gorm:"-"`

	gorm.Model
}

// TableName specifies the table name for Message Model
func (Message) TableName() string {
	return "messages"
}

// ReadByUser reports whether the user has read this message.
func (m Message) ReadByUser(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// MentionsUser reports whether the user is mentioned in this message.
func (m Message) MentionsUser(userID string) bool {
	for _, id := range m.Mentions {
		if id == userID {
			return true
		}
	}
	return false
}
