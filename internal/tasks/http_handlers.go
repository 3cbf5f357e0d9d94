package tasks

import (
	"errors"
	"net/http"

	"voiceagent-platform/internal/agents"
	"voiceagent-platform/internal/auth"
	"voiceagent-platform/internal/httpapi"
	"voiceagent-platform/internal/voiceai"
	"voiceagent-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Service *Service
}

func (h Handlers) Create(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		httpapi.Error(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req CreateTaskRequest
	if !httpapi.BindJSON(c, &req) {
		return
	}

	t, err := h.Service.Create(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidArgument):
			httpapi.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, agents.ErrNotFound):
			httpapi.Error(c, http.StatusNotFound, "agent not found")
		default:
			logger.FromGin(c).Error("task create failed", "err", err)
			httpapi.Error(c, http.StatusInternalServerError, "failed to create task")
		}
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h Handlers) ListByAgent(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		httpapi.Error(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	list, err := h.Service.ListByAgent(c.Request.Context(), userID, c.Param("agent_id"))
	if err != nil {
		logger.FromGin(c).Error("task list failed", "err", err)
		httpapi.Error(c, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": list})
}

func (h Handlers) Get(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		httpapi.Error(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	t, err := h.Service.Get(c.Request.Context(), userID, c.Param("task_id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Error(c, http.StatusNotFound, "task not found")
			return
		}
		logger.FromGin(c).Error("task get failed", "err", err)
		httpapi.Error(c, http.StatusInternalServerError, "failed to fetch task")
		return
	}
	c.JSON(http.StatusOK, t)
}

// InitiateCall places the outbound call for a task.
func (h Handlers) InitiateCall(c *gin.Context) {
	log := logger.FromGin(c)

	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		httpapi.Error(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	t, err := h.Service.InitiateCall(c.Request.Context(), userID, c.Param("task_id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, agents.ErrNotFound):
			httpapi.Error(c, http.StatusNotFound, "task not found")
		case errors.Is(err, ErrInvalidTransition):
			httpapi.Error(c, http.StatusConflict, err.Error())
		case errors.Is(err, voiceai.ErrRemoteUnavailable):
			log.Error("outbound call failed", "task_id", c.Param("task_id"), "err", err)
			httpapi.Fatal(c, http.StatusBadGateway, "failed to initiate call", err)
		default:
			log.Error("call initiation failed", "task_id", c.Param("task_id"), "err", err)
			httpapi.Fatal(c, http.StatusInternalServerError, "failed to initiate call", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Call initiated successfully",
		"callSid": t.CallID,
		"task":    t,
	})
}
