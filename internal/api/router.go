package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine with every route registered. An empty
// origins list allows all origins.
func NewRouter(h *Handler, origins []string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	config := cors.DefaultConfig()
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.MaxAge = 12 * time.Hour
	r.Use(cors.New(config))

	r.GET("/health", h.health)

	api := r.Group("/api", h.identify)
	{
		api.GET("/jobs", h.listJobs)
		api.GET("/prep", h.interviewPrep)
		api.POST("/resume", h.parseResume)

		authed := api.Group("", h.requireIdentity)
		authed.POST("/apply", h.apply)
		authed.GET("/applications", h.listApplications)
		authed.POST("/applications/:jobId/move", h.moveApplication)
		authed.PUT("/profile", h.updateProfile)
	}

	return r
}
