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

// StepHandler handles /api/steps/.
type StepHandler struct {
	steps      repository.StepRepository
	actions    repository.ActionRepository
	performers performerResolver
	metrics    *observ.Metrics
	logger     *zap.Logger
}

func NewStepHandler(
	steps repository.StepRepository,
	actions repository.ActionRepository,
	defaultPerformerID int64,
	metrics *observ.Metrics,
	logger *zap.Logger,
) *StepHandler {
	return &StepHandler{
		steps:      steps,
		actions:    actions,
		performers: performerResolver{fallback: defaultPerformerID},
		metrics:    metrics,
		logger:     logger,
	}
}

func (h *StepHandler) Create(c *gin.Context) {
	var patch models.StepPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, h.logger, err)
		return
	}

	s := models.Step{Status: models.StepNotStarted, Proof: []string{}}
	patch.Apply(&s)
	if err := s.Validate(); err != nil {
		respondError(c, h.logger, err)
		return
	}
	created, err := h.steps.Create(c.Request.Context(), &s)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *StepHandler) List(c *gin.Context) {
	steps, err := h.steps.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, steps)
}

func (h *StepHandler) Get(c *gin.Context) {
	id, err := pathID(c, "step")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	s, err := h.steps.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *StepHandler) Update(c *gin.Context) {
	id, err := pathID(c, "step")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var patch models.StepPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx := c.Request.Context()
	s, err := h.steps.GetByID(ctx, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	patch.Apply(s)
	if err := s.Validate(); err != nil {
		respondError(c, h.logger, err)
		return
	}
	updated, err := h.steps.Update(ctx, s)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *StepHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "step")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.steps.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Actions handles GET /api/steps/:id/actions/.
func (h *StepHandler) Actions(c *gin.Context) {
	id, err := pathID(c, "step")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	ctx := c.Request.Context()
	if _, err := h.steps.GetByID(ctx, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	actions, err := h.actions.ListByStep(ctx, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, actions)
}

func (h *StepHandler) UpdateStatus(c *gin.Context) {
	id, err := pathID(c, "step")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req statusRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	status := models.StepStatus(req.Status)
	if !status.Valid() {
		respondError(c, h.logger, apperr.Validation("status", "Invalid status"))
		return
	}

	performer := h.performers.resolve(c, req.PerformedByID)
	s, err := h.steps.UpdateStatus(c.Request.Context(), id, status, performer)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.metrics.StatusChanged("step", string(status))
	h.logger.Info("step status changed",
		zap.Int64("step_id", id),
		zap.Int("step_number", s.StepNumber),
		zap.String("status", string(status)),
		zap.Int64("performed_by_id", performer),
	)
	c.JSON(http.StatusOK, s)
}

type initializeStepsRequest struct {
	ProblemID int64 `json:"problem_id" binding:"required"`
}

// InitializeSteps handles POST /api/steps/initialize_steps/: it creates the
// eight canonical steps of a problem that has none.
func (h *StepHandler) InitializeSteps(c *gin.Context) {
	var req initializeStepsRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	steps, err := h.steps.Initialize(c.Request.Context(), req.ProblemID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.logger.Info("steps initialized", zap.Int64("problem_id", req.ProblemID))
	c.JSON(http.StatusCreated, steps)
}
