package repo

import (
	"context"
	"fmt"

	"github.com/cargolink/freight-service/internal/entities"

	sq "github.com/Masterminds/squirrel"
)

func (r *postgresRepo) InsertNotification(ctx context.Context, n entities.Notification) (int64, error) {
	query, args := r.qb.Insert("notifications").
		Columns("recipient_id", "title", "message", "type").
		Values(n.RecipientID, n.Title, nullString(n.Message), string(n.Type)).
		Suffix("RETURNING id").
		MustSql()

	var id int64
	if err := r.getContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("failed to insert notification: %w", err)
	}
	return id, nil
}

func (r *postgresRepo) ListNotifications(ctx context.Context, recipientID int64, unreadOnly bool) ([]entities.Notification, error) {
	q := r.qb.Select("id", "recipient_id", "title", "message", "type", "is_read", "created_at").
		From("notifications").
		Where(sq.Eq{"recipient_id": recipientID}).
		OrderBy("created_at DESC")
	if unreadOnly {
		q = q.Where(sq.Eq{"is_read": false})
	}
	query, args := q.MustSql()

	var notifications []Notification
	if err := r.selectContext(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select notifications: %w", err)
	}

	result := make([]entities.Notification, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, NotificationToEntity(n))
	}
	return result, nil
}

// MarkNotificationRead is scoped to the recipient so one user cannot touch
// another's inbox.
func (r *postgresRepo) MarkNotificationRead(ctx context.Context, id, recipientID int64) error {
	query, args := r.qb.Update("notifications").
		Set("is_read", true).
		Where(sq.Eq{"id": id, "recipient_id": recipientID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return entities.ErrNotificationNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteNotification(ctx context.Context, id, recipientID int64) error {
	query, args := r.qb.Delete("notifications").
		Where(sq.Eq{"id": id, "recipient_id": recipientID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return entities.ErrNotificationNotFound
	}
	return nil
}
