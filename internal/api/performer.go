package api

import (
	"github.com/gin-gonic/gin"
	"github.com/lalith-99/eightd/internal/middleware"
)

// statusRequest is the body of every update_status endpoint.
type statusRequest struct {
	Status        string `json:"status"`
	PerformedByID *int64 `json:"performed_by_id"`
}

// performerResolver picks who is recorded in history for a status change:
// the body's performed_by_id, then the X-User-ID header, then fallback.
// The store rejects a performer that is not a user.
type performerResolver struct {
	fallback int64
}

func (p performerResolver) resolve(c *gin.Context, fromBody *int64) int64 {
	if fromBody != nil && *fromBody > 0 {
		return *fromBody
	}
	if actor, ok := middleware.GetActorID(c); ok {
		return actor
	}
	return p.fallback
}
