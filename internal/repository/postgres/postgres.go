// Package postgres implements the repository interfaces with hand-written SQL
// over a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/repository"
)

// DB is the subset of *pgxpool.Pool the stores use.
type DB interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// NewStore wires every Postgres-backed repository onto one pool. The pool is
// goroutine-safe, so sharing it is fine.
func NewStore(pool DB) *repository.Store {
	return &repository.Store{
		Users:         NewUserStore(pool),
		Teams:         NewTeamStore(pool),
		Problems:      NewProblemStore(pool),
		Steps:         NewStepStore(pool),
		Actions:       NewActionStore(pool),
		Notifications: NewNotificationStore(pool),
		History:       NewHistoryStore(pool),
		Ping:          pool.Ping,
	}
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// inTx runs fn in a transaction, committing when fn returns nil and rolling
// back otherwise.
func inTx(ctx context.Context, db DB, fn func(pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

func collect[T any](rows pgx.Rows, what string, scan func(scanner) (*T, error)) ([]T, error) {
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}
	return out, nil
}

func list[T any](ctx context.Context, q querier, what, query string, scan func(scanner) (*T, error), args ...any) ([]T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	return collect(rows, what, scan)
}

// one maps pgx.ErrNoRows to NotFound and constraint violations to their
// apperr equivalents.
func one[T any](v *T, err error, resource string, id int64, op string) (*T, error) {
	if err == nil {
		return v, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(resource, id)
	}
	if mapped := translate(err); mapped != nil {
		return nil, mapped
	}
	return nil, fmt.Errorf("%s %s: %w", op, resource, err)
}

func deleteByID(ctx context.Context, q querier, table, resource string, id int64) error {
	tag, err := q.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", resource, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resource, id)
	}
	return nil
}

// Constraint names come from migrations/0001_init.up.sql.
var uniqueFields = map[string]string{
	"users_email_key":                  "email",
	"users_username_key":               "username",
	"team_members_team_id_user_id_key": "user_id",
	"steps_problem_id_step_number_key": "step_number",
}

var foreignKeyResources = map[string]string{
	"teams_created_by_id_fkey":      "user",
	"team_members_team_id_fkey":     "team",
	"team_members_user_id_fkey":     "user",
	"problems_declared_by_id_fkey":  "user",
	"problems_team_id_fkey":         "team",
	"steps_problem_id_fkey":         "problem",
	"steps_assigned_to_id_fkey":     "user",
	"actions_step_id_fkey":          "step",
	"actions_assigned_to_id_fkey":   "user",
	"notifications_user_id_fkey":    "user",
	"notifications_problem_id_fkey": "problem",
	"notifications_step_id_fkey":    "step",
	"history_problem_id_fkey":       "problem",
	"history_step_id_fkey":          "step",
	"history_performed_by_id_fkey":  "user",
}

// translate converts a constraint violation into an apperr, or returns nil
// when err is something else.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case "23505": // unique_violation
		field := uniqueFields[pgErr.ConstraintName]
		if field == "" {
			return apperr.Validationf("duplicate value violates %s", pgErr.ConstraintName)
		}
		return apperr.Validation(field, "a record with this "+field+" already exists")
	case "23503": // foreign_key_violation
		resource := foreignKeyResources[pgErr.ConstraintName]
		if resource == "" {
			resource = "referenced record"
		}
		return apperr.NotFound(resource, 0)
	case "23514": // check_violation
		return apperr.Validationf("value violates %s", pgErr.ConstraintName)
	}
	return nil
}

// wrap translates constraint violations and otherwise adds op context.
func wrap(err error, op string) error {
	if mapped := translate(err); mapped != nil {
		return mapped
	}
	return fmt.Errorf("%s: %w", op, err)
}
