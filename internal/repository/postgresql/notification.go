package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/notification"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/database"
	"github.com/google/uuid"
)

type notificationRepository struct {
	db database.Querier
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db database.Querier) notification.Repository {
	return &notificationRepository{db: db}
}

// CreateBatch inserts every notification with one multi-row statement
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	valueStrings := make([]string, 0, len(notifications))
	valueArgs := make([]interface{}, 0, len(notifications)*9)

	for i, n := range notifications {
		if n.ID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("generate notification id: %w", err)
			}
			n.ID = id.String()
		}

		base := i * 9
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9,
		))
		valueArgs = append(valueArgs,
			n.ID,
			n.RecipientID,
			n.SenderID,
			string(n.Type),
			n.Title,
			n.Message,
			n.RequestID,
			n.IsRead,
			n.CreatedAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO notifications (id, recipient_id, sender_id, type, title, message, request_id, is_read, created_at)
		VALUES %s
	`, strings.Join(valueStrings, ", "))

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return database.Classify(fmt.Errorf("failed to batch create notifications: %w", err))
	}

	return nil
}

// ListByRecipient retrieves one page of a recipient's notifications, newest first
func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, filter notification.ListFilter) ([]notification.Notification, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "recipient_id = $1"
	if filter.UnreadOnly {
		whereClause += " AND is_read = false"
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE "+whereClause, recipientID).Scan(&total); err != nil {
		return nil, 0, database.Classify(fmt.Errorf("failed to count notifications: %w", err))
	}

	query := fmt.Sprintf(`
		SELECT id, recipient_id, sender_id, type, title, message, request_id, is_read, read_at, created_at
		FROM notifications
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, whereClause)

	rows, err := q.Query(ctx, query, recipientID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, database.Classify(fmt.Errorf("failed to query notifications: %w", err))
	}
	defer rows.Close()

	notifications := []notification.Notification{}
	for rows.Next() {
		var n notification.Notification
		var notifType string
		if err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.SenderID,
			&notifType,
			&n.Title,
			&n.Message,
			&n.RequestID,
			&n.IsRead,
			&n.ReadAt,
			&n.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Type = notification.NotificationType(notifType)
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, database.Classify(err)
	}

	return notifications, total, nil
}

// CountUnread returns the count of unread notifications for a recipient
func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = false`, recipientID).Scan(&count)
	if err != nil {
		return 0, database.Classify(fmt.Errorf("failed to count unread notifications: %w", err))
	}
	return count, nil
}

// MarkAsRead marks the recipient's listed notifications as read. Ids that
// belong to someone else are ignored.
func (r *notificationRepository) MarkAsRead(ctx context.Context, recipientID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = true, read_at = NOW()
		WHERE recipient_id = $1 AND id::text = ANY($2) AND is_read = false
	`

	tag, err := q.Exec(ctx, query, recipientID, ids)
	if err != nil {
		return 0, database.Classify(fmt.Errorf("failed to mark notifications as read: %w", err))
	}
	return tag.RowsAffected(), nil
}
