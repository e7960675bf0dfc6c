package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrilink/support-service/internal/domain"
)

// NotificationFilter captures inbox listing parameters.
type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// NotificationRepository stores per-recipient notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, filter NotificationFilter) ([]domain.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	// MarkRead flips is_read for a notification owned by recipientID and
	// reports whether a row changed. A miss is not an error.
	MarkRead(ctx context.Context, recipientID, notificationID string) (bool, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository builds repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (recipient_id, sender_id, sender_name, sender_role, message, notification_type, tags)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, is_read, created_at`
	tags := notification.Tags
	if tags == nil {
		tags = map[string]any{}
	}
	return r.pool.QueryRow(ctx, query,
		notification.RecipientID,
		notification.SenderID,
		notification.SenderName,
		notification.SenderRole,
		notification.Message,
		notification.NotificationType,
		tags,
	).Scan(&notification.ID, &notification.IsRead, &notification.CreatedAt)
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, filter NotificationFilter) ([]domain.Notification, error) {
	query := `
        SELECT id, recipient_id, sender_id, sender_name, sender_role, message, notification_type, tags, is_read, created_at
        FROM notifications WHERE recipient_id=$1`
	if filter.UnreadOnly {
		query += ` AND NOT is_read`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += ` LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, recipientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.SenderID,
			&n.SenderName,
			&n.SenderRole,
			&n.Message,
			&n.NotificationType,
			&n.Tags,
			&n.IsRead,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id=$1 AND NOT is_read`,
		recipientID,
	).Scan(&count)
	return count, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, recipientID, notificationID string) (bool, error) {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read=TRUE WHERE id=$1 AND recipient_id=$2 AND NOT is_read`,
		notificationID, recipientID,
	)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read=TRUE WHERE recipient_id=$1 AND NOT is_read`,
		recipientID,
	)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
