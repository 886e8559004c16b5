package postgres

import (
	"context"

	"github.com/lalith-99/eightd/internal/models"
)

type UserStore struct {
	pool DB
}

func NewUserStore(pool DB) *UserStore {
	return &UserStore{pool: pool}
}

const userColumns = `id, name, role, service, competence, email, username, password_hash`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Role,
		&u.Service,
		&u.Competence,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user row. Postgres generates the id.
func (s *UserStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (name, role, service, competence, email, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING ` + userColumns

	created, err := scanUser(s.pool.QueryRow(ctx, query,
		u.Name, u.Role, u.Service, u.Competence, u.Email, u.Username, u.PasswordHash))
	return one(created, err, "user", 0, "insert")
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, query, id))
	return one(u, err, "user", id, "get")
}

// GetByEmail looks up a user for login. The match is exact; callers pass
// models.NormalizeEmail output, the same form UserPatch stores.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, query, email))
	return one(u, err, "user", 0, "get by email")
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	return list(ctx, s.pool, "users", query, scanUser)
}

func (s *UserStore) Update(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET name = $2, role = $3, service = $4, competence = $5, email = $6, username = $7
		WHERE id = $1
		RETURNING ` + userColumns

	updated, err := scanUser(s.pool.QueryRow(ctx, query,
		u.ID, u.Name, u.Role, u.Service, u.Competence, u.Email, u.Username))
	return one(updated, err, "user", u.ID, "update")
}

// Delete removes the user. Memberships, declared problems, notifications and
// history cascade; step and action assignments are set to NULL.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.pool, "users", "user", id)
}
