package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/eightd/internal/repository"
	"go.uber.org/zap"
)

// HistoryHandler serves the audit trail read-only. Entries are written only
// by the update_status endpoints.
type HistoryHandler struct {
	repo   repository.HistoryRepository
	logger *zap.Logger
}

func NewHistoryHandler(repo repository.HistoryRepository, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{repo: repo, logger: logger}
}

func (h *HistoryHandler) List(c *gin.Context) {
	entries, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *HistoryHandler) Get(c *gin.Context) {
	id, err := pathID(c, "history entry")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	entry, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// ByProblem handles GET /api/history/by_problem/?problem_id=, newest first.
func (h *HistoryHandler) ByProblem(c *gin.Context) {
	problemID, err := queryID(c, "problem_id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	entries, err := h.repo.ListByProblem(c.Request.Context(), problemID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
