package handlers

import (
	"net/http"
	"testing"
	"time"

	"unitask-api/internal/models"
	"unitask-api/internal/tracker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGetDashboardSummary(t *testing.T) {
	db := setupDB(t)
	summaryCache.Clear()

	alice := seedUser(t, db, "Alice", "alice@uni.edu")
	bob := seedUser(t, db, "Bob", "bob@uni.edu")
	group := seedGroup(t, db, alice, bob)

	past := time.Now().Add(-48 * time.Hour)
	tasks := []models.Task{
		{ID: uuid.NewString(), Title: "Done one", GroupID: group.ID, AssigneeID: alice.ID, Status: models.StatusTodo},
		{ID: uuid.NewString(), Title: "Running", GroupID: group.ID, AssigneeID: bob.ID, Status: models.StatusInProgress},
		{ID: uuid.NewString(), Title: "Late", GroupID: group.ID, AssigneeID: bob.ID, Status: models.StatusTodo, Deadline: &past},
	}
	for i := range tasks {
		require.NoError(t, db.Create(&tasks[i]).Error)
	}
	// One real status change lands in the activity feed
	_, err := tracker.SetStatus(db, tasks[0].ID, models.StatusDone, alice.ID)
	require.NoError(t, err)

	r := gin.New()
	r.Use(asUser(alice))
	r.GET("/api/dashboard/summary", GetDashboardSummary)

	w := doJSON(t, r, http.MethodGet, "/api/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary DashboardSummary
	decodeBody(t, w, &summary)
	require.Equal(t, 1, summary.ActiveProjects)
	require.Equal(t, 3, summary.TotalTasks)
	require.Equal(t, 1, summary.InProgressTasks)
	require.Equal(t, 1, summary.OverdueTasks)
	require.Len(t, summary.RecentTasks, 3)

	// Contributions are sorted by member name
	require.Len(t, summary.TeamContributions, 2)
	require.Equal(t, "Alice", summary.TeamContributions[0].Name)
	require.Equal(t, 100, summary.TeamContributions[0].Score)
	require.Equal(t, "Bob", summary.TeamContributions[1].Name)
	require.Equal(t, 0, summary.TeamContributions[1].Score)

	require.Len(t, summary.RecentActivity, 1)
	require.Equal(t, models.StatusDone, summary.RecentActivity[0].To)
	require.Equal(t, group.Name, summary.RecentActivity[0].GroupName)
}

func TestGetDashboardSummary_ServesCachedCopy(t *testing.T) {
	db := setupDB(t)
	summaryCache.Clear()

	alice := seedUser(t, db, "Alice", "alice@uni.edu")
	group := seedGroup(t, db, alice)

	r := gin.New()
	r.Use(asUser(alice))
	r.GET("/api/dashboard/summary", GetDashboardSummary)

	w := doJSON(t, r, http.MethodGet, "/api/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var first DashboardSummary
	decodeBody(t, w, &first)
	require.Equal(t, 0, first.TotalTasks)

	// A task created inside the TTL window is not visible yet
	task := models.Task{ID: uuid.NewString(), Title: "New", GroupID: group.ID, Status: models.StatusTodo}
	require.NoError(t, db.Create(&task).Error)

	w = doJSON(t, r, http.MethodGet, "/api/dashboard/summary", nil)
	var second DashboardSummary
	decodeBody(t, w, &second)
	require.Equal(t, 0, second.TotalTasks)

	summaryCache.Clear()
	w = doJSON(t, r, http.MethodGet, "/api/dashboard/summary", nil)
	var third DashboardSummary
	decodeBody(t, w, &third)
	require.Equal(t, 1, third.TotalTasks)
}
