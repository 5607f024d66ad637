package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hsmith-dev/Trasker-WebApp/internal/app"
	"github.com/hsmith-dev/Trasker-WebApp/internal/middleware"
)

// RegisterRoutes mounts the API on r. Session middleware must already be
// installed.
func RegisterRoutes(r *gin.Engine, a *app.App) {
	authHandler := NewAuthHandler(a.Auth)
	taskHandler := NewTaskHandler(a.Tasks)
	timerHandler := NewTimerHandler(a.Timers)
	epicHandler := NewEpicHandler(a.Epics, a.Sprints)
	sprintHandler := NewSprintHandler(a.Sprints)
	bugHandler := NewBugHandler(a.Bugs)
	noteHandler := NewNoteHandler(a.Notes, a.Documents)

	requireAuth := middleware.RequireAuth(a.Auth)
	requireTask := middleware.RequireTaskAccess(a.Tasks)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Trasker API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		protected := api.Group("")
		protected.Use(requireAuth)

		protected.GET("/teams", authHandler.ListTeams)
		protected.PUT("/context/team", authHandler.SwitchTeam)

		tasks := protected.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/draft", taskHandler.DraftTasks)
			tasks.GET("/:id", requireTask, taskHandler.GetTask)
			tasks.PATCH("/:id", requireTask, taskHandler.UpdateTask)
			tasks.DELETE("/:id", requireTask, taskHandler.DeleteTask)
			tasks.POST("/:id/complete", requireTask, taskHandler.CompleteTask)
			tasks.POST("/:id/archive", requireTask, taskHandler.ArchiveTask)
			tasks.POST("/:id/timer/start", timerHandler.Start)
			tasks.POST("/:id/timer/stop", timerHandler.Stop)
			tasks.GET("/:id/timer", timerHandler.Status)
			tasks.GET("/:id/sessions", timerHandler.Sessions)
			tasks.GET("/:id/bugs", bugHandler.ListByTask)
		}

		epics := protected.Group("/epics")
		{
			epics.GET("", epicHandler.List)
			epics.POST("", epicHandler.Create)
			epics.GET("/:id", epicHandler.Get)
			epics.PATCH("/:id", epicHandler.Update)
			epics.DELETE("/:id", epicHandler.Delete)
			epics.GET("/:id/sprints", epicHandler.Sprints)
		}

		sprints := protected.Group("/sprints")
		{
			sprints.GET("", sprintHandler.List)
			sprints.POST("", sprintHandler.Create)
			sprints.GET("/:id", sprintHandler.Get)
			sprints.PATCH("/:id", sprintHandler.Update)
			sprints.DELETE("/:id", sprintHandler.Delete)
		}

		bugs := protected.Group("/bugs")
		{
			bugs.GET("", bugHandler.List)
			bugs.POST("", bugHandler.Create)
			bugs.GET("/:id", bugHandler.Get)
			bugs.PATCH("/:id", bugHandler.Update)
			bugs.DELETE("/:id", bugHandler.Delete)
		}

		notes := protected.Group("/notes")
		{
			notes.GET("", noteHandler.List)
			notes.POST("", noteHandler.Create)
			notes.GET("/:id", noteHandler.Get)
			notes.PATCH("/:id", noteHandler.Update)
			notes.DELETE("/:id", noteHandler.Delete)
		}

		documents := protected.Group("/documents")
		{
			documents.GET("", noteHandler.ListDocuments)
			documents.POST("", noteHandler.UploadDocument)
			documents.GET("/:id", noteHandler.GetDocument)
			documents.PATCH("/:id", noteHandler.UpdateDocument)
			documents.DELETE("/:id", noteHandler.DeleteDocument)
			documents.GET("/:id/content", noteHandler.DocumentContent)
			documents.PUT("/:id/content", noteHandler.ReplaceDocumentContent)
		}
	}
}
