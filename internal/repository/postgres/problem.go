package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/eightd/internal/models"
)

type ProblemStore struct {
	pool DB
}

func NewProblemStore(pool DB) *ProblemStore {
	return &ProblemStore{pool: pool}
}

const problemColumns = `id, title, description, declared_on, declared_by_id, team_id, status, level,
	qq_who, qq_what, qq_where, qq_when, qq_how, qq_how_much, qq_why, photos`

func scanProblem(row scanner) (*models.Problem, error) {
	var p models.Problem
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.DeclaredOn,
		&p.DeclaredByID,
		&p.TeamID,
		&p.Status,
		&p.Level,
		&p.Who,
		&p.What,
		&p.Where,
		&p.When,
		&p.How,
		&p.HowMuch,
		&p.Why,
		&p.Photos,
	)
	if err != nil {
		return nil, err
	}
	if p.Photos == nil {
		p.Photos = []string{}
	}
	return &p, nil
}

func problemArgs(p *models.Problem) []any {
	photos := p.Photos
	if photos == nil {
		photos = []string{}
	}
	return []any{
		p.Title, p.Description, p.DeclaredOn, p.DeclaredByID, p.TeamID, p.Status, p.Level,
		p.Who, p.What, p.Where, p.When, p.How, p.HowMuch, p.Why, photos,
	}
}

func (s *ProblemStore) Create(ctx context.Context, p *models.Problem) (*models.Problem, error) {
	query := `
		INSERT INTO problems (title, description, declared_on, declared_by_id, team_id, status, level,
			qq_who, qq_what, qq_where, qq_when, qq_how, qq_how_much, qq_why, photos)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + problemColumns

	created, err := scanProblem(s.pool.QueryRow(ctx, query, problemArgs(p)...))
	return one(created, err, "problem", 0, "insert")
}

func (s *ProblemStore) GetByID(ctx context.Context, id int64) (*models.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems WHERE id = $1`

	p, err := scanProblem(s.pool.QueryRow(ctx, query, id))
	return one(p, err, "problem", id, "get")
}

func (s *ProblemStore) List(ctx context.Context) ([]models.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems ORDER BY declared_on DESC, id DESC`
	return list(ctx, s.pool, "problems", query, scanProblem)
}

func (s *ProblemStore) Update(ctx context.Context, p *models.Problem) (*models.Problem, error) {
	query := `
		UPDATE problems
		SET title = $2, description = $3, declared_on = $4, declared_by_id = $5, team_id = $6,
			status = $7, level = $8, qq_who = $9, qq_what = $10, qq_where = $11, qq_when = $12,
			qq_how = $13, qq_how_much = $14, qq_why = $15, photos = $16
		WHERE id = $1
		RETURNING ` + problemColumns

	args := append([]any{p.ID}, problemArgs(p)...)
	updated, err := scanProblem(s.pool.QueryRow(ctx, query, args...))
	return one(updated, err, "problem", p.ID, "update")
}

// Delete removes the problem; steps, actions, notifications and history
// cascade.
func (s *ProblemStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.pool, "problems", "problem", id)
}

func (s *ProblemStore) UpdateStatus(ctx context.Context, id int64, status models.ProblemStatus, performedBy int64) (*models.Problem, error) {
	var out *models.Problem
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		query := `UPDATE problems SET status = $2 WHERE id = $1 RETURNING ` + problemColumns

		p, err := scanProblem(tx.QueryRow(ctx, query, id, status))
		if p, err = one(p, err, "problem", id, "update status"); err != nil {
			return err
		}
		if err := appendHistory(ctx, tx, id, nil, models.ProblemStatusMessage(status), performedBy); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// appendHistory is the only writer of the history table.
func appendHistory(ctx context.Context, q querier, problemID int64, stepID *int64, action string, performedBy int64) error {
	query := `
		INSERT INTO history (problem_id, step_id, action, performed_by_id, performed_at)
		VALUES ($1, $2, $3, $4, now())`

	if _, err := q.Exec(ctx, query, problemID, stepID, action, performedBy); err != nil {
		return wrap(err, "append history")
	}
	return nil
}
