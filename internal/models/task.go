package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskStatus represents the status of a task on the board
type TaskStatus string

const (
	StatusTodo        TaskStatus = "To Do"
	StatusInProgress  TaskStatus = "In Progress"
	StatusUnderReview TaskStatus = "Under Review"
	StatusDone        TaskStatus = "Done"
)

// ValidStatus reports whether s is one of the board columns.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusUnderReview, StatusDone:
		return true
	}
	return false
}

// TaskType represents the type of a task (story, task, bug)
type TaskType string

const (
	TypeStory TaskType = "Story"
	TypeTask  TaskType = "Task"
	TypeBug   TaskType = "Bug"
)

// StatusChange is one entry in a task's status history
type StatusChange struct {
	From      TaskStatus `json:"from"`
	To        TaskStatus `json:"to"`
	UpdatedBy string     `json:"updatedBy"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// StatusHistory is the ordered list of status changes, stored as JSON
type StatusHistory []StatusChange

// Task represents a unit of work belonging to a group
type Task struct {
	ID          string        `json:"id" gorm:"primaryKey"`
	Title       string        `json:"title" gorm:"not null"`
	Description string        `json:"description"`
	GroupID     string        `json:"groupId" gorm:"column:group_id;not null;index"`
	AssigneeID  string        `json:"assignedTo" gorm:"column:assignee_id;index"`
	Deadline    *time.Time    `json:"deadline"`
	Status      TaskStatus    `json:"status" gorm:"not null;default:'To Do'"`
	TaskType    TaskType      `json:"type" gorm:"column:task_type;default:'Task'"`
	History     StatusHistory `json:"statusHistory" gorm:"column:status_history;serializer:json"`

	// Set by the AI difficulty estimation
	DifficultyLevel string `json:"difficultyLevel" gorm:"column:difficulty_level"`
	DifficultyEmoji string `json:"difficultyEmoji" gorm:"column:difficulty_emoji"`

	// Set by the QA verification flow
	SubmissionNote string `json:"submissionNote" gorm:"column:submission_note"`
	QAFeedback     string `json:"qaFeedback" gorm:"column:qa_feedback"`

	// Populated for responses; not stored
	Assignee  *UserSummary `json:"assignee,omitempty" gorm:"-"`
	GroupName string       `json:"groupName,omitempty" gorm:"-"`

	gorm.Model
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}
