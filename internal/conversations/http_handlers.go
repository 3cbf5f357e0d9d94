package conversations

import (
	"errors"
	"fmt"
	"net/http"

	"voiceagent-platform/internal/auth"
	"voiceagent-platform/internal/httpapi"
	"voiceagent-platform/internal/voiceai"
	"voiceagent-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers exposes the reconciliation endpoint.
type Handlers struct {
	Reconciler *Reconciler
	Locks      AgentLocks
}

type syncRequest struct {
	AgentID string `json:"agent_id"`
}

// Sync runs one reconciliation pass for an agent the caller owns. Runs for
// the same agent are serialized; an overlapping request gets 409 rather than
// queueing behind the holder.
func (h Handlers) Sync(c *gin.Context) {
	log := logger.FromGin(c)

	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		httpapi.Error(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req syncRequest
	if !httpapi.BindJSON(c, &req) {
		return
	}
	if req.AgentID == "" {
		httpapi.Error(c, http.StatusBadRequest, "agent_id is required")
		return
	}

	release, ok, err := h.Locks.Acquire(c.Request.Context(), req.AgentID)
	if err != nil {
		log.Error("sync lock acquire failed", "agent_id", req.AgentID, "err", err)
		httpapi.Fatal(c, http.StatusInternalServerError, "failed to acquire sync lock", err)
		return
	}
	if !ok {
		httpapi.Error(c, http.StatusConflict, "a sync for this agent is already running")
		return
	}

	ctx := logger.With(c.Request.Context(), log)
	defer release(ctx)

	result, err := h.Reconciler.Sync(ctx, userID, req.AgentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAgentNotFound):
			httpapi.Error(c, http.StatusNotFound, "agent not found")
		case errors.Is(err, voiceai.ErrRemoteUnavailable):
			log.Error("conversation sync failed", "agent_id", req.AgentID, "err", err)
			httpapi.Fatal(c, http.StatusBadGateway, "failed to fetch remote conversations", err)
		default:
			log.Error("conversation sync failed", "agent_id", req.AgentID, "err", err)
			httpapi.Fatal(c, http.StatusInternalServerError, "conversation sync failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          fmt.Sprintf("Synced %d new conversations", len(result.NewConversations)),
		"newConversations": result.NewConversations,
		"skipped":          result.Skipped,
	})
}
