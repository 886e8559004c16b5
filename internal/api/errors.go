package api

import (
	"errors"
	"net/http"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/middleware"
	"go.uber.org/zap"
)

// respondError renders err as {"error", "field", "request_id"}. Errors that
// are not apperr kinds are logged and hidden behind a generic 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status, body := http.StatusInternalServerError, gin.H{"error": "internal error"}

	var (
		ve *apperr.ValidationError
		nf *apperr.NotFoundError
		ic *apperr.InvalidCredentialError
		tm *apperr.TooManyRequestsError
	)
	switch {
	case errors.As(err, &ve):
		status, body = http.StatusBadRequest, gin.H{"error": ve.Message}
		if ve.Field != "" {
			body["field"] = ve.Field
		}
	case errors.As(err, &nf):
		status, body = http.StatusNotFound, gin.H{"error": capitalize(nf.Error())}
	case errors.As(err, &ic):
		status, body = http.StatusBadRequest, gin.H{"error": ic.Error()}
	case errors.As(err, &tm):
		status, body = http.StatusTooManyRequests, gin.H{"error": tm.Error()}
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
	}

	if id := middleware.GetRequestID(c); id != "" {
		body["request_id"] = id
	}
	c.AbortWithStatusJSON(status, body)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// message is the shape of responses that carry no entity.
func message(text string) gin.H {
	return gin.H{"message": text}
}
