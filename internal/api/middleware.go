package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hireinn/jobboard-service/internal/model"
)

const (
	identityKey    = "identity"
	identityErrKey = "identityErr"
)

// identify resolves the caller once per request. A bad credential is kept
// aside: optional routes proceed anonymously, required routes reject it.
func (h *Handler) identify(c *gin.Context) {
	id, err := h.identity.Identify(c.Request)
	if err != nil {
		h.logger.Debug("invalid credential", zap.Error(err))
		c.Set(identityErrKey, err)
	} else if id != nil {
		c.Set(identityKey, id)
	}
	c.Next()
}

// requireIdentity rejects requests without a verified caller.
func (h *Handler) requireIdentity(c *gin.Context) {
	if caller(c) != nil {
		c.Next()
		return
	}
	if v, ok := c.Get(identityErrKey); ok {
		h.writeError(c, v.(error))
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}

func caller(c *gin.Context) *model.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*model.Identity)
	return id
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zapRoute(c),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func zapRoute(c *gin.Context) zap.Field {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return zap.String("route", route)
}
