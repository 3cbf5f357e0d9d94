package auth

import (
	"net/http"
	"time"

	"voiceagent-platform/internal/httpapi"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Manager *Manager
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a valid refresh token for a new token pair.
// Credential-based login lives with the identity provider; this service only
// rotates tokens it issued.
func (h Handlers) Refresh(c *gin.Context) {
	var req refreshRequest
	if !httpapi.BindJSON(c, &req) {
		return
	}
	if req.RefreshToken == "" {
		httpapi.Error(c, http.StatusBadRequest, "refresh_token is required")
		return
	}

	now := time.Now()
	claims, err := h.Manager.Verify(req.RefreshToken, TokenTypeRefresh, now)
	if err != nil {
		httpapi.Error(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	pair, err := h.Manager.IssuePair(now, claims.UserID)
	if err != nil {
		httpapi.Error(c, http.StatusInternalServerError, "failed to issue tokens")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}
