package notification

import (
	"context"
)

// ListFilter pages a recipient's inbox, newest first
type ListFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// Repository defines the notification repository interface
type Repository interface {
	CreateBatch(ctx context.Context, notifications []Notification) error
	ListByRecipient(ctx context.Context, recipientID string, filter ListFilter) ([]Notification, int64, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	// MarkAsRead only touches rows owned by recipientID and returns how many changed.
	MarkAsRead(ctx context.Context, recipientID string, ids []string) (int64, error)
}
