package routes

import (
	"unitask-api/internal/handlers"
	"unitask-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes() *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204) // This depends on the implementation of the frontend
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "UniTask API is running",
		})
	})

	// Uploaded chat attachments are served back by their descriptor URL
	ginRouter.Static("/uploads", handlers.UploadDir())

	api := ginRouter.Group("/api")

	// Public routes (no authentication required)
	{
		api.POST("/auth/register", handlers.Register)
		api.POST("/auth/login", handlers.Login)
		// The OAuth provider redirects here; the user travels in state
		api.GET("/calendar/callback", handlers.CalendarCallback)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		// Profile endpoints
		protectedRoutes.GET("/auth/me", handlers.GetMe)
		protectedRoutes.PUT("/auth/profile", handlers.UpdateProfile)

		// Group endpoints
		protectedRoutes.POST("/groups/create", handlers.CreateGroup)
		protectedRoutes.POST("/groups/join", handlers.JoinGroup)
		protectedRoutes.GET("/groups/my-groups", handlers.GetMyGroups)
		protectedRoutes.PUT("/groups/:id/repo", handlers.SetGroupRepo)

		// Task endpoints
		protectedRoutes.POST("/tasks", handlers.CreateTask)
		protectedRoutes.GET("/tasks/my-tasks", handlers.GetMyTasks)
		protectedRoutes.GET("/tasks/group/:groupId", handlers.GetGroupTasks)
		protectedRoutes.GET("/tasks/:id", handlers.GetTaskByID)
		protectedRoutes.PATCH("/tasks/:id/status", handlers.UpdateTaskStatus)
		protectedRoutes.PATCH("/tasks/:id/assign", handlers.AssignTask)

		// Chat endpoints
		protectedRoutes.GET("/chat/:groupId/messages", handlers.GetGroupMessages)
		protectedRoutes.POST("/chat/:groupId/messages", handlers.SendMessage)
		protectedRoutes.PATCH("/chat/:groupId/read", handlers.MarkMessagesRead)
		protectedRoutes.GET("/chat/:groupId/unread", handlers.GetUnreadCount)
		protectedRoutes.GET("/chat/:groupId/mentions", handlers.GetMentions)
		protectedRoutes.POST("/chat/messages/:messageId/react", handlers.ToggleReaction)

		// File uploads (chat attachments)
		protectedRoutes.POST("/files/upload", handlers.UploadFile)

		// Notification endpoints
		protectedRoutes.GET("/notifications", handlers.GetNotifications)
		protectedRoutes.PUT("/notifications/:id/read", handlers.MarkNotificationRead)

		// Dashboard endpoint
		protectedRoutes.GET("/dashboard/summary", handlers.GetDashboardSummary)

		// AI endpoints
		protectedRoutes.POST("/ai/estimate-difficulty", handlers.EstimateDifficulty)
		protectedRoutes.POST("/ai/analyze", handlers.AnalyzeProject)
		protectedRoutes.POST("/ai/confirm", handlers.ConfirmPlan)
		protectedRoutes.POST("/qa/verify", handlers.VerifyTask)

		// Calendar endpoints
		protectedRoutes.GET("/calendar/auth-url", handlers.GetCalendarAuthURL)
		protectedRoutes.GET("/calendar/status", handlers.GetCalendarStatus)
		protectedRoutes.POST("/calendar/sync-task", handlers.SyncTaskToCalendar)
		protectedRoutes.POST("/calendar/sync", handlers.SyncDeadlines)

		// Real-time channel
		protectedRoutes.GET("/ws", handlers.WebSocketHandler)
	}

	return ginRouter
}
