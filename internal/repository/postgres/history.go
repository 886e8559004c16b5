package postgres

import (
	"context"

	"github.com/lalith-99/eightd/internal/models"
)

// HistoryStore is read-only. Rows are inserted by appendHistory inside the
// status-change transactions.
type HistoryStore struct {
	pool DB
}

func NewHistoryStore(pool DB) *HistoryStore {
	return &HistoryStore{pool: pool}
}

const historyColumns = `id, problem_id, step_id, action, performed_by_id, performed_at`

func scanHistory(row scanner) (*models.History, error) {
	var h models.History
	if err := row.Scan(&h.ID, &h.ProblemID, &h.StepID, &h.Action, &h.PerformedByID, &h.PerformedAt); err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *HistoryStore) GetByID(ctx context.Context, id int64) (*models.History, error) {
	query := `SELECT ` + historyColumns + ` FROM history WHERE id = $1`

	h, err := scanHistory(s.pool.QueryRow(ctx, query, id))
	return one(h, err, "history entry", id, "get")
}

func (s *HistoryStore) List(ctx context.Context) ([]models.History, error) {
	query := `SELECT ` + historyColumns + ` FROM history ORDER BY performed_at DESC, id DESC`
	return list(ctx, s.pool, "history", query, scanHistory)
}

func (s *HistoryStore) ListByProblem(ctx context.Context, problemID int64) ([]models.History, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM history
		WHERE problem_id = $1
		ORDER BY performed_at DESC, id DESC`
	return list(ctx, s.pool, "history", query, scanHistory, problemID)
}
