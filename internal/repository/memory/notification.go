package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/notification"
)

type notificationRepository struct {
	*Store
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = append(r.notifications, notifications...)
	return nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, filter notification.ListFilter) ([]notification.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []notification.Notification
	for _, n := range r.notifications {
		if n.RecipientID != recipientID || (filter.UnreadOnly && n.IsRead) {
			continue
		}
		matched = append(matched, n)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	return page(matched, filter.Limit, filter.Offset), int64(len(matched)), nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, recipientID string, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	now := time.Now().UTC()
	var updated int64
	for i, n := range r.notifications {
		if _, ok := wanted[n.ID]; !ok || n.RecipientID != recipientID || n.IsRead {
			continue
		}
		r.notifications[i].IsRead = true
		r.notifications[i].ReadAt = &now
		updated++
	}
	return updated, nil
}
