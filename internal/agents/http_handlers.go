package agents

import (
	"encoding/json"
	"errors"
	"net/http"

	"voiceagent-platform/internal/auth"
	"voiceagent-platform/internal/httpapi"
	"voiceagent-platform/internal/voiceai"
	"voiceagent-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers exposes agent CRUD and remote pass-through endpoints.
type Handlers struct {
	Service *Service
}

func (h Handlers) Create(c *gin.Context) {
	log := logger.FromGin(c)

	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		httpapi.Error(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req CreateAgentRequest
	if !httpapi.BindJSON(c, &req) {
		return
	}

	a, err := h.Service.Create(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidArgument):
			httpapi.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, voiceai.ErrRemoteUnavailable):
			log.Error("remote agent create failed", "err", err)
			httpapi.Fatal(c, http.StatusBadGateway, "failed to create remote agent", err)
		default:
			log.Error("agent create failed", "err", err)
			httpapi.Fatal(c, http.StatusInternalServerError, "failed to create agent", err)
		}
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h Handlers) List(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		httpapi.Error(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	list, err := h.Service.List(c.Request.Context(), userID)
	if err != nil {
		logger.FromGin(c).Error("agent list failed", "err", err)
		httpapi.Error(c, http.StatusInternalServerError, "failed to list agents")
		return
	}
	c.JSON(http.StatusOK, gin.H{"agents": list})
}

func (h Handlers) Get(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		httpapi.Error(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	a, err := h.Service.Get(c.Request.Context(), userID, c.Param("agent_id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Error(c, http.StatusNotFound, "agent not found")
			return
		}
		logger.FromGin(c).Error("agent get failed", "err", err)
		httpapi.Error(c, http.StatusInternalServerError, "failed to fetch agent")
		return
	}
	c.JSON(http.StatusOK, a)
}

// GetRemote relays the remote agent configuration verbatim.
func (h Handlers) GetRemote(c *gin.Context) {
	log := logger.FromGin(c)

	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		httpapi.Error(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	cfg, err := h.Service.RemoteConfig(c.Request.Context(), userID, c.Param("agent_id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpapi.Error(c, http.StatusNotFound, "agent not found")
		case errors.Is(err, voiceai.ErrRemoteUnavailable):
			log.Error("remote agent fetch failed", "err", err)
			httpapi.Fatal(c, http.StatusBadGateway, "failed to fetch remote agent", err)
		default:
			log.Error("remote agent fetch failed", "err", err)
			httpapi.Fatal(c, http.StatusInternalServerError, "failed to fetch remote agent", err)
		}
		return
	}
	c.Data(http.StatusOK, "application/json", cfg)
}

type updateRemoteRequest struct {
	Updates json.RawMessage `json:"updates"`
}

// UpdateRemote relays a partial configuration update to the remote system.
func (h Handlers) UpdateRemote(c *gin.Context) {
	log := logger.FromGin(c)

	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		httpapi.Error(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req updateRemoteRequest
	if !httpapi.BindJSON(c, &req) {
		return
	}

	updated, err := h.Service.UpdateRemoteConfig(c.Request.Context(), userID, c.Param("agent_id"), req.Updates)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidArgument):
			httpapi.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNotFound):
			httpapi.Error(c, http.StatusNotFound, "agent not found")
		case errors.Is(err, voiceai.ErrRemoteUnavailable):
			log.Error("remote agent update failed", "err", err)
			httpapi.Fatal(c, http.StatusBadGateway, "failed to update remote agent", err)
		default:
			log.Error("remote agent update failed", "err", err)
			httpapi.Fatal(c, http.StatusInternalServerError, "failed to update remote agent", err)
		}
		return
	}
	c.Data(http.StatusOK, "application/json", updated)
}
