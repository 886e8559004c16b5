package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/models"
)

type StepStore struct {
	pool DB
}

func NewStepStore(pool DB) *StepStore {
	return &StepStore{pool: pool}
}

const stepColumns = `id, problem_id, step_number, description, assigned_to_id, date_start, date_end, status, proof`

func scanStep(row scanner) (*models.Step, error) {
	var s models.Step
	err := row.Scan(
		&s.ID,
		&s.ProblemID,
		&s.StepNumber,
		&s.Description,
		&s.AssignedToID,
		&s.DateStart,
		&s.DateEnd,
		&s.Status,
		&s.Proof,
	)
	if err != nil {
		return nil, err
	}
	if s.Proof == nil {
		s.Proof = []string{}
	}
	return &s, nil
}

func proofOrEmpty(proof []string) []string {
	if proof == nil {
		return []string{}
	}
	return proof
}

const insertStep = `
	INSERT INTO steps (problem_id, step_number, description, assigned_to_id, date_start, date_end, status, proof)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING ` + stepColumns

func (s *StepStore) Create(ctx context.Context, st *models.Step) (*models.Step, error) {
	created, err := scanStep(s.pool.QueryRow(ctx, insertStep,
		st.ProblemID, st.StepNumber, st.Description, st.AssignedToID, st.DateStart, st.DateEnd, st.Status, proofOrEmpty(st.Proof)))
	return one(created, err, "step", 0, "insert")
}

func (s *StepStore) GetByID(ctx context.Context, id int64) (*models.Step, error) {
	query := `SELECT ` + stepColumns + ` FROM steps WHERE id = $1`

	st, err := scanStep(s.pool.QueryRow(ctx, query, id))
	return one(st, err, "step", id, "get")
}

func (s *StepStore) List(ctx context.Context) ([]models.Step, error) {
	query := `SELECT ` + stepColumns + ` FROM steps ORDER BY problem_id, step_number`
	return list(ctx, s.pool, "steps", query, scanStep)
}

func (s *StepStore) ListByProblem(ctx context.Context, problemID int64) ([]models.Step, error) {
	query := `SELECT ` + stepColumns + ` FROM steps WHERE problem_id = $1 ORDER BY step_number`
	return list(ctx, s.pool, "steps", query, scanStep, problemID)
}

func (s *StepStore) Update(ctx context.Context, st *models.Step) (*models.Step, error) {
	query := `
		UPDATE steps
		SET problem_id = $2, step_number = $3, description = $4, assigned_to_id = $5,
			date_start = $6, date_end = $7, status = $8, proof = $9
		WHERE id = $1
		RETURNING ` + stepColumns

	updated, err := scanStep(s.pool.QueryRow(ctx, query,
		st.ID, st.ProblemID, st.StepNumber, st.Description, st.AssignedToID, st.DateStart, st.DateEnd, st.Status, proofOrEmpty(st.Proof)))
	return one(updated, err, "step", st.ID, "update")
}

func (s *StepStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.pool, "steps", "step", id)
}

func (s *StepStore) UpdateStatus(ctx context.Context, id int64, status models.StepStatus, performedBy int64) (*models.Step, error) {
	var out *models.Step
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		query := `UPDATE steps SET status = $2 WHERE id = $1 RETURNING ` + stepColumns

		st, err := scanStep(tx.QueryRow(ctx, query, id, status))
		if st, err = one(st, err, "step", id, "update status"); err != nil {
			return err
		}
		msg := models.StepStatusMessage(st.StepNumber, status)
		if err := appendHistory(ctx, tx, st.ProblemID, &st.ID, msg, performedBy); err != nil {
			return err
		}
		out = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Initialize locks the problem row for the duration of the transaction, so
// two concurrent calls serialize: the second sees the first one's steps and
// fails instead of inserting a partial duplicate set.
func (s *StepStore) Initialize(ctx context.Context, problemID int64) ([]models.Step, error) {
	var out []models.Step
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx, `SELECT id FROM problems WHERE id = $1 FOR UPDATE`, problemID).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("problem", problemID)
		}
		if err != nil {
			return fmt.Errorf("lock problem: %w", err)
		}

		var exists bool
		err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM steps WHERE problem_id = $1)`, problemID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check existing steps: %w", err)
		}
		if exists {
			return apperr.Validationf("Steps already initialized")
		}

		out = make([]models.Step, 0, models.StepCount)
		for _, st := range models.CanonicalSteps(problemID) {
			created, err := scanStep(tx.QueryRow(ctx, insertStep,
				st.ProblemID, st.StepNumber, st.Description, st.AssignedToID, st.DateStart, st.DateEnd, st.Status, st.Proof))
			if err != nil {
				return wrap(err, "insert step")
			}
			out = append(out, *created)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
