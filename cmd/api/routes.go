package main

import (
	"net/http"

	"voiceagent-platform/internal/agents"
	"voiceagent-platform/internal/auth"
	"voiceagent-platform/internal/contact"
	"voiceagent-platform/internal/conversations"
	"voiceagent-platform/internal/profiles"
	"voiceagent-platform/internal/reporting"
	"voiceagent-platform/internal/tasks"

	"github.com/gin-gonic/gin"
)

// handlerSet bundles every HTTP handler the router needs.
// Keep this file free of business logic; handlers delegate to internal modules.
type handlerSet struct {
	Auth          auth.Handlers
	Agents        agents.Handlers
	Tasks         tasks.Handlers
	Profiles      profiles.Handlers
	Conversations conversations.Handlers
	Reporting     reporting.Handlers
	Contact       contact.Handlers
}

func registerRoutes(r *gin.Engine, deps handlerSet, authMW gin.HandlerFunc, health gin.HandlerFunc) {
	// public
	r.GET("/healthz", health)
	r.POST("/v1/contact", deps.Contact.Submit)
	r.POST("/v1/auth/refresh", deps.Auth.Refresh)

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(authMW)
	{
		v1.GET("/me", func(c *gin.Context) {
			uid, _ := auth.UserID(c.Request.Context())
			c.JSON(http.StatusOK, gin.H{"user_id": uid})
		})

		ag := v1.Group("/agents")
		{
			ag.POST("", deps.Agents.Create)
			ag.GET("", deps.Agents.List)
			ag.POST("/sync", deps.Conversations.Sync)
			ag.GET("/:agent_id", deps.Agents.Get)
			ag.GET("/:agent_id/remote", deps.Agents.GetRemote)
			ag.PATCH("/:agent_id/remote", deps.Agents.UpdateRemote)
			ag.GET("/:agent_id/tasks", deps.Tasks.ListByAgent)
			ag.GET("/:agent_id/summary", deps.Reporting.AgentSummary)
		}

		ts := v1.Group("/tasks")
		{
			ts.POST("", deps.Tasks.Create)
			ts.GET("/:task_id", deps.Tasks.Get)
			ts.POST("/:task_id/initiate", deps.Tasks.InitiateCall)
		}

		v1.GET("/profile", deps.Profiles.Get)
		v1.PUT("/profile", deps.Profiles.Update)
	}
}
