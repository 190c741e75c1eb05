package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"unitask-api/internal/ai"
	"unitask-api/internal/chat"
	"unitask-api/internal/database"
	"unitask-api/internal/models"
	"unitask-api/internal/notify"
	"unitask-api/internal/tracker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var aiClient *ai.Client

// SetAIClient wires the generative-AI client used by the AI endpoints.
func SetAIClient(c *ai.Client) {
	aiClient = c
}

func aiError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ai.ErrMalformedResponse):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "malformed AI response"})
	case errors.Is(err, ai.ErrNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI provider is not configured"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI request failed"})
	}
}

// EstimateDifficultyRequest represents the estimation payload
type EstimateDifficultyRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	TaskID      string `json:"taskId"`
}

// EstimateDifficulty handles POST /api/ai/estimate-difficulty
// When taskId is given, the estimate is persisted onto the task.
func EstimateDifficulty(c *gin.Context) {
	var req EstimateDifficultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task title is required"})
		return
	}

	est, err := aiClient.EstimateDifficulty(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		aiError(c, err)
		return
	}

	if req.TaskID != "" {
		db := database.GetDB()
		var task models.Task
		if err := db.Where("id = ?", req.TaskID).First(&task).Error; err == nil {
			db.Model(&task).Updates(map[string]interface{}{
				"difficulty_level": est.Difficulty,
				"difficulty_emoji": est.Emoji,
			})
		}
	}

	c.JSON(http.StatusOK, est)
}

// extractFileText pulls a usable text brief out of an uploaded file. PDFs
// get a crude printable-run scan; everything else is assumed to be text.
func extractFileText(data []byte) string {
	if len(data) > 4 && string(data[:4]) == "%PDF" {
		var sb strings.Builder
		run := make([]byte, 0, 256)
		flush := func() {
			if len(run) >= 4 {
				sb.Write(run)
				sb.WriteByte(' ')
			}
			run = run[:0]
		}
		for _, b := range data {
			if b >= 32 && b < 127 {
				run = append(run, b)
			} else {
				flush()
			}
		}
		flush()
		return sb.String()
	}
	return string(data)
}

// AnalyzeProject handles POST /api/ai/analyze
// Accepts a multipart form with an optional brief file and/or a description
// field, and returns a proposed task plan.
func AnalyzeProject(c *gin.Context) {
	brief := c.PostForm("description")

	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err == nil {
			data, readErr := io.ReadAll(io.LimitReader(f, 4<<20))
			f.Close()
			if readErr == nil {
				brief = strings.TrimSpace(brief + "\n" + extractFileText(data))
			}
		}
	}

	if strings.TrimSpace(brief) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A project description or brief file is required"})
		return
	}

	plan, err := aiClient.AnalyzeProject(c.Request.Context(), brief)
	if err != nil {
		aiError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": plan})
}

// ConfirmPlanRequest represents the plan confirmation payload
type ConfirmPlanRequest struct {
	GroupID string           `json:"groupId" binding:"required"`
	Tasks   []ai.PlannedTask `json:"tasks" binding:"required"`
	Assign  bool             `json:"assign"`
}

// ConfirmPlan handles POST /api/ai/confirm
// Creates the plan's tasks on the group board. With assign=true the AI maps
// tasks to members by skill; if that call or its parsing fails, tasks are
// dealt round-robin instead.
func ConfirmPlan(c *gin.Context) {
	userID := c.GetString("user_id")

	var req ConfirmPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Tasks) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Plan has no tasks"})
		return
	}

	db := database.GetDB()
	group, err := chat.LoadGroupForMember(db, req.GroupID, userID)
	if err != nil {
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

	var assignments map[string]string
	if req.Assign {
		members, err := chat.GroupMembers(db, group)
		if err != nil || len(members) == 0 {
			assignments = map[string]string{}
		} else if suggested, aiErr := aiClient.SuggestAssignments(c.Request.Context(), req.Tasks, members); aiErr == nil {
			assignments = suggested
		} else {
			// The only automatic fallback in the system
			ids := make([]string, 0, len(members))
			for _, m := range members {
				ids = append(ids, m.ID)
			}
			assignments = ai.RoundRobinAssign(req.Tasks, ids)
		}
	}

	created := make([]models.Task, 0, len(req.Tasks))
	for _, planned := range req.Tasks {
		taskType := models.TaskType(planned.Type)
		switch taskType {
		case models.TypeStory, models.TypeTask, models.TypeBug:
		default:
			taskType = models.TypeTask
		}

		task := models.Task{
			ID:          uuid.NewString(),
			Title:       planned.Title,
			Description: planned.Description,
			GroupID:     req.GroupID,
			TaskType:    taskType,
			Status:      models.StatusTodo,
		}
		if err := db.Create(&task).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tasks"})
			return
		}

		if assigneeID := assignments[planned.Title]; assigneeID != "" {
			if t, err := tracker.SetAssignee(db, task.ID, assigneeID, userID); err == nil {
				task = *t
			}
		}
		created = append(created, task)
	}

	c.JSON(http.StatusCreated, gin.H{"tasks": created, "count": len(created)})
}

// VerifyTaskRequest represents the QA verification payload
type VerifyTaskRequest struct {
	TaskID         string `json:"taskId" binding:"required"`
	SubmissionNote string `json:"submissionNote"`
}

// VerifyTask handles POST /api/qa/verify
// Asks the AI to judge the submission and stores note and feedback on the
// task. The task's assignee is notified of the verdict.
func VerifyTask(c *gin.Context) {
	var req VerifyTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	var task models.Task
	if err := db.Where("id = ?", req.TaskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		}
		return
	}

	verification, err := aiClient.VerifySubmission(c.Request.Context(), &task, req.SubmissionNote)
	if err != nil {
		aiError(c, err)
		return
	}

	db.Model(&task).Updates(map[string]interface{}{
		"submission_note": req.SubmissionNote,
		"qa_feedback":     verification.Feedback,
	})

	if task.AssigneeID != "" {
		notify.Notify(db, task.AssigneeID, "QA verdict for \""+task.Title+"\": "+verification.Verdict, "qa")
	}

	c.JSON(http.StatusOK, verification)
}
