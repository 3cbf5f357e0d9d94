package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Shared response envelopes. Handlers should stay thin: parse/validate input,
// call internal services, and reply through these helpers.

// Error writes a terse error body for client-caused failures.
func Error(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// Fatal writes the verbose operator-facing envelope used for failures that
// abort a whole operation. The detail is the full wrapped error chain; it is
// meant for operators reading logs and dashboards, not end users.
func Fatal(c *gin.Context, status int, msg string, err error) {
	body := gin.H{
		"error": msg,
		"time":  time.Now().UTC().Format(time.RFC3339),
	}
	if err != nil {
		body["detail"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

// BindJSON decodes the request body and replies 400 on malformed input.
// Returns false when the request has already been answered.
func BindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		Error(c, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}
