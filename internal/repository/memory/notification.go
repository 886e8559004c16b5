package memory

import (
	"cmp"
	"context"

	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/models"
)

type NotificationRepo struct {
	d *db
}

func (d *db) notificationRefs(n *models.Notification) error {
	if err := d.userExists(n.UserID); err != nil {
		return err
	}
	if n.ProblemID != nil {
		if err := d.problemExists(*n.ProblemID); err != nil {
			return err
		}
	}
	if n.StepID != nil {
		return d.stepExists(*n.StepID)
	}
	return nil
}

func newestFirst(a, b models.Notification) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func (r *NotificationRepo) Create(_ context.Context, n *models.Notification) (*models.Notification, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if err := r.d.notificationRefs(n); err != nil {
		return nil, err
	}
	row := *n
	row.ID = r.d.id()
	row.CreatedAt = r.d.now()
	r.d.notifications[row.ID] = row
	return &row, nil
}

func (r *NotificationRepo) GetByID(_ context.Context, id int64) (*models.Notification, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	n, ok := r.d.notifications[id]
	if !ok {
		return nil, apperr.NotFound("notification", id)
	}
	return &n, nil
}

func (r *NotificationRepo) List(_ context.Context) ([]models.Notification, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	return values(r.d.notifications, nil, newestFirst), nil
}

func (r *NotificationRepo) ListByUser(_ context.Context, userID int64) ([]models.Notification, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	keep := func(n models.Notification) bool { return n.UserID == userID }
	return values(r.d.notifications, keep, newestFirst), nil
}

// Update keeps the stored created_at.
func (r *NotificationRepo) Update(_ context.Context, n *models.Notification) (*models.Notification, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	stored, ok := r.d.notifications[n.ID]
	if !ok {
		return nil, apperr.NotFound("notification", n.ID)
	}
	if err := r.d.notificationRefs(n); err != nil {
		return nil, err
	}
	row := *n
	row.CreatedAt = stored.CreatedAt
	r.d.notifications[row.ID] = row
	return &row, nil
}

func (r *NotificationRepo) Delete(_ context.Context, id int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.notifications[id]; !ok {
		return apperr.NotFound("notification", id)
	}
	delete(r.d.notifications, id)
	return nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, id int64) (*models.Notification, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	n, ok := r.d.notifications[id]
	if !ok {
		return nil, apperr.NotFound("notification", id)
	}
	n.IsRead = true
	r.d.notifications[id] = n
	return &n, nil
}

func (r *NotificationRepo) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	var updated int64
	for id, n := range r.d.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			r.d.notifications[id] = n
			updated++
		}
	}
	return updated, nil
}
