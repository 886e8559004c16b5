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

// ProblemHandler handles /api/problems/.
type ProblemHandler struct {
	problems   repository.ProblemRepository
	steps      repository.StepRepository
	performers performerResolver
	metrics    *observ.Metrics
	logger     *zap.Logger
}

func NewProblemHandler(
	problems repository.ProblemRepository,
	steps repository.StepRepository,
	defaultPerformerID int64,
	metrics *observ.Metrics,
	logger *zap.Logger,
) *ProblemHandler {
	return &ProblemHandler{
		problems:   problems,
		steps:      steps,
		performers: performerResolver{fallback: defaultPerformerID},
		metrics:    metrics,
		logger:     logger,
	}
}

// Create handles POST /api/problems/. Status defaults to Ouvert and
// declared_on to today.
func (h *ProblemHandler) Create(c *gin.Context) {
	var patch models.ProblemPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, h.logger, err)
		return
	}

	p := models.Problem{
		DeclaredOn: models.Today(),
		Status:     models.ProblemOpen,
		Photos:     []string{},
	}
	patch.Apply(&p)
	if err := p.Validate(); err != nil {
		respondError(c, h.logger, err)
		return
	}
	created, err := h.problems.Create(c.Request.Context(), &p)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// List returns problems newest declaration first.
func (h *ProblemHandler) List(c *gin.Context) {
	problems, err := h.problems.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, problems)
}

func (h *ProblemHandler) Get(c *gin.Context) {
	id, err := pathID(c, "problem")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	p, err := h.problems.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update applies the supplied fields. Setting status this way writes no
// history; use update_status for that.
func (h *ProblemHandler) Update(c *gin.Context) {
	id, err := pathID(c, "problem")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var patch models.ProblemPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx := c.Request.Context()
	p, err := h.problems.GetByID(ctx, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	patch.Apply(p)
	if err := p.Validate(); err != nil {
		respondError(c, h.logger, err)
		return
	}
	updated, err := h.problems.Update(ctx, p)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ProblemHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "problem")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.problems.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Steps handles GET /api/problems/:id/steps/.
func (h *ProblemHandler) Steps(c *gin.Context) {
	id, err := pathID(c, "problem")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	ctx := c.Request.Context()
	if _, err := h.problems.GetByID(ctx, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	steps, err := h.steps.ListByProblem(ctx, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, steps)
}

// UpdateStatus handles PATCH /api/problems/:id/update_status/. Any status
// may follow any other.
func (h *ProblemHandler) UpdateStatus(c *gin.Context) {
	id, err := pathID(c, "problem")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req statusRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	status := models.ProblemStatus(req.Status)
	if !status.Valid() {
		respondError(c, h.logger, apperr.Validation("status", "Invalid status"))
		return
	}

	performer := h.performers.resolve(c, req.PerformedByID)
	p, err := h.problems.UpdateStatus(c.Request.Context(), id, status, performer)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.metrics.StatusChanged("problem", string(status))
	h.logger.Info("problem status changed",
		zap.Int64("problem_id", id),
		zap.String("status", string(status)),
		zap.Int64("performed_by_id", performer),
	)
	c.JSON(http.StatusOK, p)
}
