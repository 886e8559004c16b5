package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/eightd/internal/models"
	"github.com/lalith-99/eightd/internal/repository"
	"go.uber.org/zap"
)

// NotificationHandler handles /api/notifications/. Clients poll; nothing is
// pushed.
type NotificationHandler struct {
	repo   repository.NotificationRepository
	logger *zap.Logger
}

func NewNotificationHandler(repo repository.NotificationRepository, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{repo: repo, logger: logger}
}

// Create handles POST /api/notifications/. created_at is always set by the
// server.
func (h *NotificationHandler) Create(c *gin.Context) {
	var patch models.NotificationPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, h.logger, err)
		return
	}

	var n models.Notification
	patch.Apply(&n)
	if err := n.Validate(); err != nil {
		respondError(c, h.logger, err)
		return
	}
	created, err := h.repo.Create(c.Request.Context(), &n)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *NotificationHandler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) Get(c *gin.Context) {
	id, err := pathID(c, "notification")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	n, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *NotificationHandler) Update(c *gin.Context) {
	id, err := pathID(c, "notification")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var patch models.NotificationPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx := c.Request.Context()
	n, err := h.repo.GetByID(ctx, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	patch.Apply(n)
	if err := n.Validate(); err != nil {
		respondError(c, h.logger, err)
		return
	}
	updated, err := h.repo.Update(ctx, n)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "notification")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ByUser handles GET /api/notifications/by_user/?user_id=, newest first.
func (h *NotificationHandler) ByUser(c *gin.Context) {
	userID, err := queryID(c, "user_id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	list, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := pathID(c, "notification")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	n, err := h.repo.MarkRead(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

type markAllReadRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// MarkAllRead handles PATCH /api/notifications/mark_all_read/. Only that
// user's unread notifications change.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	var req markAllReadRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	updated, err := h.repo.MarkAllRead(c.Request.Context(), req.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "All notifications marked as read",
		"updated": updated,
	})
}
