package profiles

import (
	"errors"
	"net/http"

	"voiceagent-platform/internal/auth"
	"voiceagent-platform/internal/httpapi"
	"voiceagent-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Repo Repository
}

func (h Handlers) Get(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		httpapi.Error(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	p, err := h.Repo.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Error(c, http.StatusNotFound, "profile not found")
			return
		}
		logger.FromGin(c).Error("profile get failed", "err", err)
		httpapi.Error(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

type updateProfileRequest struct {
	PhoneNumberID string `json:"phone_number"`
}

func (h Handlers) Update(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		httpapi.Error(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req updateProfileRequest
	if !httpapi.BindJSON(c, &req) {
		return
	}
	p := Profile{UserID: userID, PhoneNumberID: req.PhoneNumberID}
	if err := h.Repo.Upsert(c.Request.Context(), p); err != nil {
		logger.FromGin(c).Error("profile upsert failed", "err", err)
		httpapi.Error(c, http.StatusInternalServerError, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
