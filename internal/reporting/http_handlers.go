package reporting

import (
	"errors"
	"net/http"
	"time"

	"voiceagent-platform/internal/auth"
	"voiceagent-platform/internal/httpapi"
	"voiceagent-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// defaultSummaryWindow applies when the caller omits the range.
const defaultSummaryWindow = 30 * 24 * time.Hour

type Handlers struct {
	Service *Service
}

// AgentSummary serves GET /agents/:agent_id/summary with optional
// from/to query parameters in RFC 3339.
func (h Handlers) AgentSummary(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		httpapi.Error(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	now := time.Now().UTC()
	rng := TimeRange{From: now.Add(-defaultSummaryWindow), To: now}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httpapi.Error(c, http.StatusBadRequest, "from must be RFC 3339")
			return
		}
		rng.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httpapi.Error(c, http.StatusBadRequest, "to must be RFC 3339")
			return
		}
		rng.To = t
	}

	out, err := h.Service.AgentSummary(c.Request.Context(), AgentSummaryRequest{
		UserID:  userID,
		AgentID: c.Param("agent_id"),
		Range:   rng,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRequest):
			httpapi.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNotFound):
			httpapi.Error(c, http.StatusNotFound, "agent not found")
		default:
			logger.FromGin(c).Error("agent summary failed", "err", err)
			httpapi.Error(c, http.StatusInternalServerError, "failed to build summary")
		}
		return
	}
	c.JSON(http.StatusOK, out)
}
