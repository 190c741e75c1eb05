package tracker

import (
	"errors"
	"fmt"
	"time"

	"unitask-api/internal/models"
	"unitask-api/internal/notify"

	"gorm.io/gorm"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidStatus = errors.New("invalid task status")
)

// SetStatus moves a task to a new board column and records the change in the
// task's history. Any column-to-column move is allowed; only enum membership
// is checked. Setting the current status again is a no-op and appends
// nothing.
func SetStatus(db *gorm.DB, taskID string, newStatus models.TaskStatus, actorID string) (*models.Task, error) {
	if !models.ValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	var task models.Task
	if err := db.Where("id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if task.Status == newStatus {
		return &task, nil
	}

	task.History = append(task.History, models.StatusChange{
		From:      task.Status,
		To:        newStatus,
		UpdatedBy: actorID,
		UpdatedAt: time.Now(),
	})
	task.Status = newStatus

	if err := db.Model(&task).Updates(map[string]interface{}{
		"status":         task.Status,
		"status_history": task.History,
	}).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// SetAssignee overwrites a task's assignee. A non-empty assignee is notified.
func SetAssignee(db *gorm.DB, taskID, assigneeID, actorID string) (*models.Task, error) {
	var task models.Task
	if err := db.Where("id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	task.AssigneeID = assigneeID
	if err := db.Model(&task).Update("assignee_id", assigneeID).Error; err != nil {
		return nil, err
	}

	if assigneeID != "" && assigneeID != actorID {
		notify.Notify(db, assigneeID, fmt.Sprintf("You have been assigned the task %q", task.Title), "task")
	}
	return &task, nil
}
