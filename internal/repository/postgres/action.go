package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/eightd/internal/models"
)

type ActionStore struct {
	pool DB
}

func NewActionStore(pool DB) *ActionStore {
	return &ActionStore{pool: pool}
}

const actionColumns = `id, step_id, description, assigned_to_id, status, date_due, proof`

func scanAction(row scanner) (*models.Action, error) {
	var a models.Action
	err := row.Scan(
		&a.ID,
		&a.StepID,
		&a.Description,
		&a.AssignedToID,
		&a.Status,
		&a.DateDue,
		&a.Proof,
	)
	if err != nil {
		return nil, err
	}
	if a.Proof == nil {
		a.Proof = []string{}
	}
	return &a, nil
}

func (s *ActionStore) Create(ctx context.Context, a *models.Action) (*models.Action, error) {
	query := `
		INSERT INTO actions (step_id, description, assigned_to_id, status, date_due, proof)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + actionColumns

	created, err := scanAction(s.pool.QueryRow(ctx, query,
		a.StepID, a.Description, a.AssignedToID, a.Status, a.DateDue, proofOrEmpty(a.Proof)))
	return one(created, err, "action", 0, "insert")
}

func (s *ActionStore) GetByID(ctx context.Context, id int64) (*models.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM actions WHERE id = $1`

	a, err := scanAction(s.pool.QueryRow(ctx, query, id))
	return one(a, err, "action", id, "get")
}

func (s *ActionStore) List(ctx context.Context) ([]models.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM actions ORDER BY step_id, date_due NULLS LAST, id`
	return list(ctx, s.pool, "actions", query, scanAction)
}

func (s *ActionStore) ListByStep(ctx context.Context, stepID int64) ([]models.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM actions WHERE step_id = $1 ORDER BY id`
	return list(ctx, s.pool, "actions", query, scanAction, stepID)
}

func (s *ActionStore) Update(ctx context.Context, a *models.Action) (*models.Action, error) {
	query := `
		UPDATE actions
		SET step_id = $2, description = $3, assigned_to_id = $4, status = $5, date_due = $6, proof = $7
		WHERE id = $1
		RETURNING ` + actionColumns

	updated, err := scanAction(s.pool.QueryRow(ctx, query,
		a.ID, a.StepID, a.Description, a.AssignedToID, a.Status, a.DateDue, proofOrEmpty(a.Proof)))
	return one(updated, err, "action", a.ID, "update")
}

func (s *ActionStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.pool, "actions", "action", id)
}

func (s *ActionStore) UpdateStatus(ctx context.Context, id int64, status models.ActionStatus, performedBy int64) (*models.Action, error) {
	var out *models.Action
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		query := `UPDATE actions SET status = $2 WHERE id = $1 RETURNING ` + actionColumns

		a, err := scanAction(tx.QueryRow(ctx, query, id, status))
		if a, err = one(a, err, "action", id, "update status"); err != nil {
			return err
		}

		var problemID int64
		if err := tx.QueryRow(ctx, `SELECT problem_id FROM steps WHERE id = $1`, a.StepID).Scan(&problemID); err != nil {
			return fmt.Errorf("get action problem: %w", err)
		}
		stepID := a.StepID
		if err := appendHistory(ctx, tx, problemID, &stepID, models.ActionStatusMessage(status), performedBy); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
