package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/enterprise_booking/internal/core/domain"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// InsertIfAbsent leans on notifications_recipient_booking_kind_key. Soft
// deleted rows keep their tuple occupied.
func (r *NotificationRepository) InsertIfAbsent(ctx context.Context, n *domain.Notification) (bool, error) {
	query := `
	INSERT INTO notifications (id, recipient_id, booking_id, kind, title, body, is_read, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
	ON CONFLICT (recipient_id, booking_id, kind) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, n.ID, n.RecipientID, n.BookingID, n.Kind, n.Title, n.Body, n.CreatedAt)
	if isUniqueViolation(err) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to insert notification: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]domain.Notification, error) {
	query := `
	SELECT id, recipient_id, booking_id, kind, title, body, is_read, created_at
	FROM notifications
	WHERE recipient_id = $1 AND deleted_at IS NULL AND (NOT $2 OR is_read = FALSE)
	ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, recipientID, unreadOnly)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.BookingID, &n.Kind, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}

		items = append(items, n)
	}

	return items, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	query := `
	UPDATE notifications
	SET is_read = TRUE
	WHERE id = $1 AND recipient_id = $2 AND deleted_at IS NULL
	`

	return r.execOwned(ctx, query, notificationID, recipientID)
}

func (r *NotificationRepository) Delete(ctx context.Context, recipientID, notificationID uuid.UUID, deletedAt time.Time) error {
	query := `
	UPDATE notifications
	SET deleted_at = $3
	WHERE id = $1 AND recipient_id = $2 AND deleted_at IS NULL
	`

	return r.execOwned(ctx, query, notificationID, recipientID, deletedAt)
}

func (r *NotificationRepository) execOwned(ctx context.Context, query string, notificationID, recipientID uuid.UUID, extra ...any) error {
	args := append([]any{notificationID, recipientID}, extra...)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrNotificationNotFound
	}

	return nil
}
