package respond

import (
	"github.com/gin-gonic/gin"

	"profile-extractor/internal/shared/telemetry"
)

// ErrorResponse is the machine-readable error object returned on every failure.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// Error sends a standardized error response and logs it.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if details != nil {
		fields["details"] = details
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}
