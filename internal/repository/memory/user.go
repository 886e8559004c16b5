package memory

import (
	"cmp"
	"context"

	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/models"
)

type UserRepo struct {
	d *db
}

// uniqueUser enforces the email and username keys, ignoring the row being
// updated.
func (d *db) uniqueUser(u *models.User) error {
	for _, other := range d.users {
		if other.ID == u.ID {
			continue
		}
		if other.Email == u.Email {
			return duplicate("email")
		}
		if other.Username == u.Username {
			return duplicate("username")
		}
	}
	return nil
}

func (r *UserRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	row := *u
	row.ID = 0
	if err := r.d.uniqueUser(&row); err != nil {
		return nil, err
	}
	row.ID = r.d.id()
	r.d.users[row.ID] = row
	return &row, nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	u, ok := r.d.users[id]
	if !ok {
		return nil, apperr.NotFound("user", id)
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	for _, u := range r.d.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user", 0)
}

func (r *UserRepo) List(_ context.Context) ([]models.User, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	return values(r.d.users, nil, func(a, b models.User) int { return cmp.Compare(a.ID, b.ID) }), nil
}

// Update leaves the stored password hash untouched.
func (r *UserRepo) Update(_ context.Context, u *models.User) (*models.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	stored, ok := r.d.users[u.ID]
	if !ok {
		return nil, apperr.NotFound("user", u.ID)
	}
	if err := r.d.uniqueUser(u); err != nil {
		return nil, err
	}
	row := *u
	row.PasswordHash = stored.PasswordHash
	r.d.users[row.ID] = row
	return &row, nil
}

func (r *UserRepo) Delete(_ context.Context, id int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.users[id]; !ok {
		return apperr.NotFound("user", id)
	}
	r.d.deleteUser(id)
	return nil
}
