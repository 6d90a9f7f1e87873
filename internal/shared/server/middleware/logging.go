package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"profile-extractor/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		extractionID, _ := c.Get("extractionId")
		shareID, _ := c.Get("shareId")

		telemetry.Info("request.complete", map[string]any{
			"request_id":    RequestIDFromContext(c),
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"route":         c.FullPath(),
			"status":        c.Writer.Status(),
			"duration_ms":   float64(latency.Microseconds()) / 1000.0,
			"extraction_id": extractionID,
			"share_id":      shareID,
			"client_ip":     c.ClientIP(),
			"user_agent":    c.Request.UserAgent(),
		})
	}
}
