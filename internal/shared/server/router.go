package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"profile-extractor/internal/extraction"
	"profile-extractor/internal/shared/config"
	"profile-extractor/internal/shared/metrics"
	"profile-extractor/internal/shared/server/middleware"
	"profile-extractor/internal/shared/server/respond"
	"profile-extractor/internal/shares"
)

// RouterDeps contains the handlers and checks wired into the router.
type RouterDeps struct {
	Config            config.Config
	ExtractionHandler *extraction.Handler
	ShareHandler      *shares.Handler
	// HealthCheck reports storage readiness. Nil means always healthy.
	HealthCheck func(ctx context.Context) error
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", healthHandler(deps.HealthCheck))
	r.GET("/metrics", metrics.Handler())

	if deps.ExtractionHandler != nil {
		var mw []gin.HandlerFunc
		if deps.Config.ExtractRateLimitPerMin > 0 {
			limiter := middleware.NewRateLimiter(time.Now)
			mw = append(mw, middleware.RateLimit(limiter, "extract", middleware.PerMinute(deps.Config.ExtractRateLimitPerMin)))
		}
		deps.ExtractionHandler.RegisterRoutes(r, mw...)
	}
	if deps.ShareHandler != nil {
		deps.ShareHandler.RegisterRoutes(r)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	return r
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				respond.JSON(c, http.StatusServiceUnavailable, gin.H{"ok": false, "error": "storage unavailable"})
				return
			}
		}
		respond.OK(c, gin.H{"ok": true})
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
