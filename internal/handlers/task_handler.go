package handlers

import (
	"errors"
	"net/http"
	"time"

	"unitask-api/internal/chat"
	"unitask-api/internal/database"
	"unitask-api/internal/models"
	"unitask-api/internal/tracker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	GroupID     string            `json:"groupId" binding:"required"`
	Deadline    *time.Time        `json:"deadline"`
	AssignedTo  string            `json:"assignedTo"`
	TaskType    models.TaskType   `json:"type"`
	Status      models.TaskStatus `json:"status"`
}

// CreateTask handles POST /api/tasks
// Creates a task on the group board; the creator must belong to the group.
func CreateTask(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	if _, err := chat.LoadGroupForMember(db, req.GroupID, userID); err != nil {
		switch {
		case errors.Is(err, chat.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		case errors.Is(err, chat.ErrNotMember):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check group"})
		}
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !models.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	taskType := req.TaskType
	if taskType == "" {
		taskType = models.TypeTask
	}

	task := models.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		GroupID:     req.GroupID,
		AssigneeID:  req.AssignedTo,
		Deadline:    req.Deadline,
		Status:      status,
		TaskType:    taskType,
	}
	if err := db.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	enrichAssignee(db, &task)
	c.JSON(http.StatusCreated, task)
}

// GetGroupTasks handles GET /api/tasks/group/:groupId
func GetGroupTasks(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("groupId")

	db := database.GetDB()
	if _, err := chat.LoadGroupForMember(db, groupID, userID); err != nil {
		switch {
		case errors.Is(err, chat.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		case errors.Is(err, chat.ErrNotMember):
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this group"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check group"})
		}
		return
	}

	var tasks []models.Task
	if err := db.Where("group_id = ?", groupID).Order("created_at desc").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	enrichAssignees(db, tasks)
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

// GetMyTasks handles GET /api/tasks/my-tasks
// Returns the user's assigned tasks across all groups.
func GetMyTasks(c *gin.Context) {
	userID := c.GetString("user_id")
	db := database.GetDB()

	var tasks []models.Task
	if err := db.Where("assignee_id = ?", userID).Order("created_at desc").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	// Populate group names
	groupNames := make(map[string]string)
	for i := range tasks {
		name, ok := groupNames[tasks[i].GroupID]
		if !ok {
			var group models.Group
			if err := db.Where("id = ?", tasks[i].GroupID).First(&group).Error; err == nil {
				name = group.Name
			}
			groupNames[tasks[i].GroupID] = name
		}
		tasks[i].GroupName = name
	}

	enrichAssignees(db, tasks)
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

// UpdateTaskStatusRequest represents a minimal request to change status
type UpdateTaskStatusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
}

// UpdateTaskStatus handles PATCH /api/tasks/:id/status
// Moves the task on the board and records the change in its history.
func UpdateTaskStatus(c *gin.Context) {
	userID := c.GetString("user_id")
	taskID := c.Param("id")

	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := tracker.SetStatus(database.GetDB(), taskID, req.Status, userID)
	if err != nil {
		switch {
		case errors.Is(err, tracker.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, tracker.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		}
		return
	}

	enrichAssignee(database.GetDB(), task)
	c.JSON(http.StatusOK, task)
}

// AssignTaskRequest represents the assignment payload
type AssignTaskRequest struct {
	AssignedTo string `json:"assignedTo"`
}

// AssignTask handles PATCH /api/tasks/:id/assign
// Overwrites the assignee; a new non-empty assignee is notified.
func AssignTask(c *gin.Context) {
	userID := c.GetString("user_id")
	taskID := c.Param("id")

	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := tracker.SetAssignee(database.GetDB(), taskID, req.AssignedTo, userID)
	if err != nil {
		if errors.Is(err, tracker.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign task"})
		}
		return
	}

	enrichAssignee(database.GetDB(), task)
	c.JSON(http.StatusOK, task)
}

// GetTaskByID handles GET /api/tasks/:id
func GetTaskByID(c *gin.Context) {
	taskID := c.Param("id")

	db := database.GetDB()
	var task models.Task
	if err := db.Where("id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		}
		return
	}

	enrichAssignee(db, &task)
	c.JSON(http.StatusOK, task)
}

// enrichAssignee fills the response-only assignee summary.
func enrichAssignee(db *gorm.DB, task *models.Task) {
	if task.AssigneeID == "" {
		return
	}
	var u models.User
	if err := db.Where("id = ?", task.AssigneeID).First(&u).Error; err == nil {
		s := u.Summary()
		task.Assignee = &s
	}
}

func enrichAssignees(db *gorm.DB, tasks []models.Task) {
	if len(tasks) == 0 {
		return
	}
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if t.AssigneeID != "" {
			ids = append(ids, t.AssigneeID)
		}
	}
	if len(ids) == 0 {
		return
	}
	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return
	}
	byID := make(map[string]models.UserSummary, len(users))
	for _, u := range users {
		byID[u.ID] = u.Summary()
	}
	for i := range tasks {
		if s, ok := byID[tasks[i].AssigneeID]; ok {
			s := s
			tasks[i].Assignee = &s
		}
	}
}
