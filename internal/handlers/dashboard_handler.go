package handlers

import (
	"net/http"
	"sort"
	"time"

	"unitask-api/internal/cache"
	"unitask-api/internal/database"
	"unitask-api/internal/models"

	"github.com/gin-gonic/gin"
)

// summaryCache keeps per-user dashboard summaries briefly; the summary walks
// every task in every group the user belongs to.
var summaryCache = cache.NewSimpleCache[string, DashboardSummary](cache.Options{ConcurrencySafe: true})

const summaryTTL = 30 * time.Second

// TeamContribution is one member's completion ratio across the user's groups
type TeamContribution struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// ActivityEntry is one flattened status-history record for the feed
type ActivityEntry struct {
	TaskID    string            `json:"taskId"`
	TaskTitle string            `json:"taskTitle"`
	GroupName string            `json:"groupName"`
	From      models.TaskStatus `json:"from"`
	To        models.TaskStatus `json:"to"`
	UpdatedBy string            `json:"updatedBy"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// DashboardSummary is the response payload for the summary endpoint
type DashboardSummary struct {
	ActiveProjects    int                `json:"activeProjects"`
	TotalTasks        int                `json:"totalTasks"`
	InProgressTasks   int                `json:"inProgressTasks"`
	OverdueTasks      int                `json:"overdueTasks"`
	RecentTasks       []models.Task      `json:"recentTasks"`
	TeamContributions []TeamContribution `json:"teamContributions"`
	RecentActivity    []ActivityEntry    `json:"recentActivity"`
}

// GetDashboardSummary handles GET /api/dashboard/summary
func GetDashboardSummary(c *gin.Context) {
	userID := c.GetString("user_id")

	if summary, ok := summaryCache.Get(userID); ok {
		c.JSON(http.StatusOK, summary)
		return
	}

	db := database.GetDB()

	var groups []models.Group
	if err := db.Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	groupNames := make(map[string]string)
	var groupIDs []string
	for _, g := range groups {
		if g.HasMember(userID) {
			groupIDs = append(groupIDs, g.ID)
			groupNames[g.ID] = g.Name
		}
	}

	summary := DashboardSummary{
		ActiveProjects:    len(groupIDs),
		RecentTasks:       []models.Task{},
		TeamContributions: []TeamContribution{},
		RecentActivity:    []ActivityEntry{},
	}

	var tasks []models.Task
	if len(groupIDs) > 0 {
		if err := db.Where("group_id IN ?", groupIDs).Order("created_at desc").Find(&tasks).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
			return
		}
	}

	now := time.Now()
	summary.TotalTasks = len(tasks)
	for _, t := range tasks {
		if t.Status == models.StatusInProgress {
			summary.InProgressTasks++
		}
		if t.Status != models.StatusDone && t.Deadline != nil && t.Deadline.Before(now) {
			summary.OverdueTasks++
		}
	}

	enrichAssignees(db, tasks)
	if len(tasks) > 4 {
		summary.RecentTasks = tasks[:4]
	} else {
		summary.RecentTasks = tasks
	}

	// Completion ratio per assignee across the user's groups
	type stat struct {
		name               string
		assigned, complete int
	}
	memberStats := make(map[string]*stat)
	for _, t := range tasks {
		if t.AssigneeID == "" {
			continue
		}
		s, ok := memberStats[t.AssigneeID]
		if !ok {
			name := t.AssigneeID
			if t.Assignee != nil {
				name = t.Assignee.Name
			}
			s = &stat{name: name}
			memberStats[t.AssigneeID] = s
		}
		s.assigned++
		if t.Status == models.StatusDone {
			s.complete++
		}
	}
	for _, s := range memberStats {
		score := 0
		if s.assigned > 0 {
			score = s.complete * 100 / s.assigned
		}
		summary.TeamContributions = append(summary.TeamContributions, TeamContribution{
			Name:      s.name,
			Score:     score,
			Completed: s.complete,
			Total:     s.assigned,
		})
	}
	sort.Slice(summary.TeamContributions, func(i, j int) bool {
		return summary.TeamContributions[i].Name < summary.TeamContributions[j].Name
	})

	// Flatten status history across tasks into the 10 newest entries
	for _, t := range tasks {
		for _, h := range t.History {
			summary.RecentActivity = append(summary.RecentActivity, ActivityEntry{
				TaskID:    t.ID,
				TaskTitle: t.Title,
				GroupName: groupNames[t.GroupID],
				From:      h.From,
				To:        h.To,
				UpdatedBy: h.UpdatedBy,
				UpdatedAt: h.UpdatedAt,
			})
		}
	}
	sort.Slice(summary.RecentActivity, func(i, j int) bool {
		return summary.RecentActivity[i].UpdatedAt.After(summary.RecentActivity[j].UpdatedAt)
	})
	if len(summary.RecentActivity) > 10 {
		summary.RecentActivity = summary.RecentActivity[:10]
	}

	summaryCache.Set(userID, summary, summaryTTL)
	c.JSON(http.StatusOK, summary)
}
