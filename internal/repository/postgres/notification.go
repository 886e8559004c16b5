package postgres

import (
	"context"
	"fmt"

	"github.com/lalith-99/eightd/internal/models"
)

type NotificationStore struct {
	pool DB
}

func NewNotificationStore(pool DB) *NotificationStore {
	return &NotificationStore{pool: pool}
}

const notificationColumns = `id, user_id, problem_id, step_id, message, created_at, is_read`

func scanNotification(row scanner) (*models.Notification, error) {
	var n models.Notification
	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.ProblemID,
		&n.StepID,
		&n.Message,
		&n.CreatedAt,
		&n.IsRead,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create lets Postgres assign created_at; it is never written afterwards.
func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	query := `
		INSERT INTO notifications (user_id, problem_id, step_id, message, created_at, is_read)
		VALUES ($1, $2, $3, $4, now(), $5)
		RETURNING ` + notificationColumns

	created, err := scanNotification(s.pool.QueryRow(ctx, query, n.UserID, n.ProblemID, n.StepID, n.Message, n.IsRead))
	return one(created, err, "notification", 0, "insert")
}

func (s *NotificationStore) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	n, err := scanNotification(s.pool.QueryRow(ctx, query, id))
	return one(n, err, "notification", id, "get")
}

// Ordering uses id as a tiebreaker: bigserial follows insertion order, so
// rows created in the same instant still come back newest first.
func (s *NotificationStore) List(ctx context.Context) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications ORDER BY created_at DESC, id DESC`
	return list(ctx, s.pool, "notifications", query, scanNotification)
}

func (s *NotificationStore) ListByUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	return list(ctx, s.pool, "notifications", query, scanNotification, userID)
}

func (s *NotificationStore) Update(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	query := `
		UPDATE notifications
		SET user_id = $2, problem_id = $3, step_id = $4, message = $5, is_read = $6
		WHERE id = $1
		RETURNING ` + notificationColumns

	updated, err := scanNotification(s.pool.QueryRow(ctx, query, n.ID, n.UserID, n.ProblemID, n.StepID, n.Message, n.IsRead))
	return one(updated, err, "notification", n.ID, "update")
}

func (s *NotificationStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.pool, "notifications", "notification", id)
}

func (s *NotificationStore) MarkRead(ctx context.Context, id int64) (*models.Notification, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 RETURNING ` + notificationColumns

	n, err := scanNotification(s.pool.QueryRow(ctx, query, id))
	return one(n, err, "notification", id, "mark read")
}

// MarkAllRead only touches unread rows, so the count is the number that
// actually changed.
func (s *NotificationStore) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE user_id = $1 AND NOT is_read`

	tag, err := s.pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return tag.RowsAffected(), nil
}
