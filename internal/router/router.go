package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/epesicloud-mmg/tasks-backend/api/handler"
)

type Handlers struct {
	Auth         *apiHandler.AuthHandler
	Workspace    *apiHandler.WorkspaceHandler
	Project      *apiHandler.ProjectHandler
	Task         *apiHandler.TaskHandler
	Vault        *apiHandler.VaultHandler
	Notification *apiHandler.NotificationHandler
	Health       *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)

	// Protected routes
	r.GET("/api/v1/profile", authMiddleware(handlers.Auth.GetProfile))
	r.PUT("/api/v1/profile", authMiddleware(handlers.Auth.UpdateProfile))

	r.POST("/api/v1/workspaces", authMiddleware(handlers.Workspace.Create))
	r.GET("/api/v1/workspaces", authMiddleware(handlers.Workspace.List))
	r.GET("/api/v1/workspaces/{workspaceID}", authMiddleware(handlers.Workspace.Get))
	r.GET("/api/v1/workspaces/{workspaceID}/members", authMiddleware(handlers.Workspace.ListMembers))
	r.POST("/api/v1/workspaces/{workspaceID}/members", authMiddleware(handlers.Workspace.AddMember))
	r.DELETE("/api/v1/workspaces/{workspaceID}/members/{memberID}", authMiddleware(handlers.Workspace.RemoveMember))
	r.POST("/api/v1/workspaces/{workspaceID}/invitations", authMiddleware(handlers.Workspace.Invite))
	r.GET("/api/v1/workspaces/{workspaceID}/invitations", authMiddleware(handlers.Workspace.ListInvitations))
	r.POST("/api/v1/invitations/accept", authMiddleware(handlers.Workspace.AcceptInvitation))

	r.GET("/api/v1/workspaces/{workspaceID}/projects", authMiddleware(handlers.Project.ListProjects))
	r.POST("/api/v1/workspaces/{workspaceID}/projects", authMiddleware(handlers.Project.CreateProject))
	r.GET("/api/v1/workspaces/{workspaceID}/projects/{id}", authMiddleware(handlers.Project.GetProject))
	r.PUT("/api/v1/workspaces/{workspaceID}/projects/{id}", authMiddleware(handlers.Project.UpdateProject))
	r.DELETE("/api/v1/workspaces/{workspaceID}/projects/{id}", authMiddleware(handlers.Project.DeleteProject))

	r.GET("/api/v1/workspaces/{workspaceID}/categories", authMiddleware(handlers.Project.ListCategories))
	r.POST("/api/v1/workspaces/{workspaceID}/categories", authMiddleware(handlers.Project.CreateCategory))
	r.PUT("/api/v1/workspaces/{workspaceID}/categories/{id}", authMiddleware(handlers.Project.UpdateCategory))
	r.DELETE("/api/v1/workspaces/{workspaceID}/categories/{id}", authMiddleware(handlers.Project.DeleteCategory))

	r.GET("/api/v1/workspaces/{workspaceID}/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/v1/workspaces/{workspaceID}/tasks", authMiddleware(handlers.Task.CreateTask))
	r.GET("/api/v1/workspaces/{workspaceID}/tasks/due", authMiddleware(handlers.Task.GetTasksDue))
	r.GET("/api/v1/workspaces/{workspaceID}/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	r.PUT("/api/v1/workspaces/{workspaceID}/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/workspaces/{workspaceID}/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))
	r.POST("/api/v1/workspaces/{workspaceID}/tasks/{id}/recurrence", authMiddleware(handlers.Task.AttachRecurrence))
	r.GET("/api/v1/workspaces/{workspaceID}/tasks/{id}/occurrences", authMiddleware(handlers.Task.PreviewOccurrences))
	r.DELETE("/api/v1/workspaces/{workspaceID}/tasks/{id}/occurrences/{date}", authMiddleware(handlers.Task.DeleteOccurrence))

	r.GET("/api/v1/workspaces/{workspaceID}/files", authMiddleware(handlers.Vault.ListFiles))
	r.POST("/api/v1/workspaces/{workspaceID}/files", authMiddleware(handlers.Vault.RegisterFile))
	r.DELETE("/api/v1/workspaces/{workspaceID}/files/{fileID}", authMiddleware(handlers.Vault.DeleteFile))

	r.GET("/api/v1/notifications", authMiddleware(handlers.Notification.List))
	r.POST("/api/v1/notifications/read-all", authMiddleware(handlers.Notification.MarkAllRead))
	r.POST("/api/v1/notifications/{id}/read", authMiddleware(handlers.Notification.MarkRead))

	return r
}
