package contact

import (
	"errors"
	"net/http"

	"voiceagent-platform/internal/httpapi"
	"voiceagent-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Service *Service
}

// Submit accepts a contact-form message and relays it by email.
func (h Handlers) Submit(c *gin.Context) {
	var m Message
	if !httpapi.BindJSON(c, &m) {
		return
	}

	if err := h.Service.Send(c.Request.Context(), m); err != nil {
		if errors.Is(err, ErrInvalidArgument) {
			httpapi.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.FromGin(c).Error("contact message delivery failed", "err", err)
		httpapi.Fatal(c, http.StatusBadGateway, "failed to deliver message", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
