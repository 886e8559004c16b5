package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/models"
	"github.com/lalith-99/eightd/internal/observ"
	"github.com/lalith-99/eightd/internal/repository"
	"go.uber.org/zap"
)

// ActionHandler handles /api/actions/.
type ActionHandler struct {
	repo       repository.ActionRepository
	performers performerResolver
	metrics    *observ.Metrics
	logger     *zap.Logger
}

func NewActionHandler(repo repository.ActionRepository, defaultPerformerID int64, metrics *observ.Metrics, logger *zap.Logger) *ActionHandler {
	return &ActionHandler{
		repo:       repo,
		performers: performerResolver{fallback: defaultPerformerID},
		metrics:    metrics,
		logger:     logger,
	}
}

func (h *ActionHandler) Create(c *gin.Context) {
	var patch models.ActionPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, h.logger, err)
		return
	}

	a := models.Action{Status: models.ActionNotStarted, Proof: []string{}}
	patch.Apply(&a)
	if err := a.Validate(); err != nil {
		respondError(c, h.logger, err)
		return
	}
	created, err := h.repo.Create(c.Request.Context(), &a)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ActionHandler) List(c *gin.Context) {
	actions, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, actions)
}

func (h *ActionHandler) Get(c *gin.Context) {
	id, err := pathID(c, "action")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	a, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *ActionHandler) Update(c *gin.Context) {
	id, err := pathID(c, "action")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var patch models.ActionPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx := c.Request.Context()
	a, err := h.repo.GetByID(ctx, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	patch.Apply(a)
	if err := a.Validate(); err != nil {
		respondError(c, h.logger, err)
		return
	}
	updated, err := h.repo.Update(ctx, a)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ActionHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "action")
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

// UpdateStatus records the change against the problem that owns the
// action's step.
func (h *ActionHandler) UpdateStatus(c *gin.Context) {
	id, err := pathID(c, "action")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req statusRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	status := models.ActionStatus(req.Status)
	if !status.Valid() {
		respondError(c, h.logger, apperr.Validation("status", "Invalid status"))
		return
	}

	performer := h.performers.resolve(c, req.PerformedByID)
	a, err := h.repo.UpdateStatus(c.Request.Context(), id, status, performer)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.metrics.StatusChanged("action", string(status))
	c.JSON(http.StatusOK, a)
}
