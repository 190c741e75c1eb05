package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Group represents a team of users sharing a task board and chat channel
type Group struct {
	ID          string                      `json:"id" gorm:"primaryKey"`
	Name        string                      `json:"name" gorm:"not null"`
	Description string                      `json:"description"`
	LeaderID    string                      `json:"leader" gorm:"column:leader_id;not null"`
	MemberIDs   datatypes.JSONSlice[string] `json:"members" gorm:"column:member_ids"`
	InviteCode  string                      `json:"inviteCode" gorm:"column:invite_code;unique;not null"`
	GithubRepo  string                      `json:"githubRepo" gorm:"column:github_repo"`

	// Populated member summaries for responses; not stored
	Members []UserSummary `json:"memberDetails,omitempty" gorm:"-"`

	gorm.Model
}

// TableName specifies the table name for Group Model
func (Group) TableName() string {
	return "groups"
}

// HasMember reports whether the user belongs to the group. The leader is
// always a member.
func (g Group) HasMember(userID string) bool {
	if g.LeaderID == userID {
		return true
	}
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
