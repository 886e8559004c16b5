package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by the middleware in this package.
const (
	ContextKeyActorID   = "actor_id"
	ContextKeyRequestID = "request_id"
)

// ActorHeader names the user acting on the request. It is an assertion by
// the client, not an authenticated identity.
const ActorHeader = "X-User-ID"

// Actor parses X-User-ID into the gin context. A missing header is fine; a
// header that is not a positive integer is rejected with 400.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(ActorHeader))
		if raw == "" {
			c.Next()
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":      ActorHeader + " must be a positive integer",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Set(ContextKeyActorID, id)
		c.Next()
	}
}

// GetActorID returns the X-User-ID of the request, if one was sent.
func GetActorID(c *gin.Context) (int64, bool) {
	val, exists := c.Get(ContextKeyActorID)
	if !exists {
		return 0, false
	}
	id, ok := val.(int64)
	return id, ok
}
