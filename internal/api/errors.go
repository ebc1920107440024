package api

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "hireinn/jobboard-service/internal/errors"
)

var statusByType = map[apperrors.ErrorType]int{
	apperrors.ErrTypeNotFound:     http.StatusNotFound,
	apperrors.ErrTypeInvalidInput: http.StatusBadRequest,
	apperrors.ErrTypeUnauthorized: http.StatusUnauthorized,
	apperrors.ErrTypeUnavailable:  http.StatusServiceUnavailable,
	apperrors.ErrTypeRateLimit:    http.StatusTooManyRequests,
	apperrors.ErrTypeInternal:     http.StatusInternalServerError,
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	if code, ok := statusByType[apperrors.TypeOf(err)]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"error": msg}. Internal details stay in the log.
func (h *Handler) writeError(c *gin.Context, err error) {
	code := StatusFor(err)
	msg := http.StatusText(code)

	var de *apperrors.DomainError
	if stderrors.As(err, &de) && code != http.StatusInternalServerError {
		msg = de.Message
	}
	if code >= http.StatusInternalServerError {
		h.logger.Error("request failed", zapRoute(c), zap.Error(err))
	}
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}
