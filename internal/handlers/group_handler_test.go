package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"testing"

	"unitask-api/internal/middleware"
	"unitask-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func groupRouter(u models.User) *gin.Engine {
	r := gin.New()
	r.Use(asUser(u))
	r.POST("/api/groups/create", CreateGroup)
	r.POST("/api/groups/join", JoinGroup)
	r.GET("/api/groups/my-groups", GetMyGroups)
	r.PUT("/api/groups/:id/repo", SetGroupRepo)
	return r
}

func TestCreateGroup_LeaderIsFirstMember(t *testing.T) {
	db := setupDB(t)
	alice := seedUser(t, db, "Alice", "alice@uni.edu")

	w := doJSON(t, groupRouter(alice), http.MethodPost, "/api/groups/create", gin.H{
		"name":        "Capstone Team 7",
		"description": "Final year project",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var group models.Group
	decodeBody(t, w, &group)
	require.Equal(t, alice.ID, group.LeaderID)
	require.Equal(t, []string{alice.ID}, []string(group.MemberIDs))
	require.Regexp(t, regexp.MustCompile(`^[0-9A-F]{6}$`), group.InviteCode)
}

func TestJoinGroup(t *testing.T) {
	db := setupDB(t)
	alice := seedUser(t, db, "Alice", "alice@uni.edu")
	bob := seedUser(t, db, "Bob", "bob@uni.edu")
	group := seedGroup(t, db, alice)

	// Unknown invite code
	w := doJSON(t, groupRouter(bob), http.MethodPost, "/api/groups/join", gin.H{
		"inviteCode": "ZZZZZZ",
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	// Joining adds the caller to the member list; codes are matched
	// case-insensitively even though they are stored uppercase.
	w = doJSON(t, groupRouter(bob), http.MethodPost, "/api/groups/join", gin.H{
		"inviteCode": strings.ToLower(group.InviteCode),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Group
	require.NoError(t, db.Where("id = ?", group.ID).First(&stored).Error)
	require.Contains(t, []string(stored.MemberIDs), bob.ID)

	// Joining twice is rejected
	w = doJSON(t, groupRouter(bob), http.MethodPost, "/api/groups/join", gin.H{
		"inviteCode": group.InviteCode,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetGroupRepo_LeaderOnly(t *testing.T) {
	db := setupDB(t)
	alice := seedUser(t, db, "Alice", "alice@uni.edu")
	bob := seedUser(t, db, "Bob", "bob@uni.edu")
	group := seedGroup(t, db, alice, bob)

	w := doJSON(t, groupRouter(bob), http.MethodPut, "/api/groups/"+group.ID+"/repo", gin.H{
		"githubRepo": "acme/capstone",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, groupRouter(alice), http.MethodPut, "/api/groups/"+group.ID+"/repo", gin.H{
		"githubRepo": "acme/capstone",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Group
	require.NoError(t, db.Where("id = ?", group.ID).First(&stored).Error)
	require.Equal(t, "acme/capstone", stored.GithubRepo)
}

// TestGroupProjectFlow drives the full lifecycle through the real JWT
// middleware: register two students, form a group via invite code, assign a
// task to the joiner, and complete it.
func TestGroupProjectFlow(t *testing.T) {
	setupDB(t)

	r := gin.New()
	r.POST("/api/auth/register", Register)
	authed := r.Group("", middleware.JWTAuthMiddleware())
	authed.POST("/api/groups/create", CreateGroup)
	authed.POST("/api/groups/join", JoinGroup)
	authed.GET("/api/groups/my-groups", GetMyGroups)
	authed.POST("/api/tasks", CreateTask)
	authed.GET("/api/tasks/my-tasks", GetMyTasks)
	authed.PATCH("/api/tasks/:id/status", UpdateTaskStatus)

	register := func(name, email string) AuthResponse {
		w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
			"name": name, "email": email, "password": "secret123",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var resp AuthResponse
		decodeBody(t, w, &resp)
		return resp
	}

	leader := register("Alice", "alice@uni.edu")
	member := register("Bob", "bob@uni.edu")

	// No token means no access
	w := doJSON(t, r, http.MethodPost, "/api/groups/create", gin.H{"name": "X"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doBearerJSON(t, r, http.MethodPost, "/api/groups/create", leader.Token, gin.H{
		"name": "Capstone Team 7",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var group models.Group
	decodeBody(t, w, &group)

	w = doBearerJSON(t, r, http.MethodPost, "/api/groups/join", member.Token, gin.H{
		"inviteCode": group.InviteCode,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Both sides now see the group with two members
	w = doBearerJSON(t, r, http.MethodGet, "/api/groups/my-groups", member.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var groupsResp struct {
		Groups []models.Group `json:"groups"`
		Count  int            `json:"count"`
	}
	decodeBody(t, w, &groupsResp)
	require.Equal(t, 1, groupsResp.Count)
	require.Len(t, groupsResp.Groups[0].Members, 2)

	w = doBearerJSON(t, r, http.MethodPost, "/api/tasks", leader.Token, gin.H{
		"title":      "Literature review",
		"groupId":    group.ID,
		"assignedTo": member.User.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var task models.Task
	decodeBody(t, w, &task)

	w = doBearerJSON(t, r, http.MethodGet, "/api/tasks/my-tasks", member.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tasksResp struct {
		Tasks []models.Task `json:"tasks"`
	}
	decodeBody(t, w, &tasksResp)
	require.Len(t, tasksResp.Tasks, 1)
	require.Equal(t, "Capstone Team 7", tasksResp.Tasks[0].GroupName)

	w = doBearerJSON(t, r, http.MethodPatch, "/api/tasks/"+task.ID+"/status", member.Token, gin.H{
		"status": models.StatusDone,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var done models.Task
	decodeBody(t, w, &done)
	require.Equal(t, models.StatusDone, done.Status)
	require.Len(t, done.History, 1)
	require.Equal(t, models.StatusTodo, done.History[0].From)
	require.Equal(t, models.StatusDone, done.History[0].To)
	require.Equal(t, member.User.ID, done.History[0].UpdatedBy)
}
