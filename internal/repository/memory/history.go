package memory

import (
	"cmp"
	"context"

	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/models"
)

type HistoryRepo struct {
	d *db
}

func latestFirst(a, b models.History) int {
	if c := b.PerformedAt.Compare(a.PerformedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func (r *HistoryRepo) GetByID(_ context.Context, id int64) (*models.History, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	h, ok := r.d.history[id]
	if !ok {
		return nil, apperr.NotFound("history entry", id)
	}
	return &h, nil
}

func (r *HistoryRepo) List(_ context.Context) ([]models.History, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	return values(r.d.history, nil, latestFirst), nil
}

func (r *HistoryRepo) ListByProblem(_ context.Context, problemID int64) ([]models.History, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	keep := func(h models.History) bool { return h.ProblemID == problemID }
	return values(r.d.history, keep, latestFirst), nil
}
