package notification

import (
	"context"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/auth"
)

// Sink accepts lifecycle events. Emit must never block the caller.
type Sink interface {
	Emit(event Event)
}

// Service defines the notification service interface
type Service interface {
	Sink

	ListNotifications(ctx context.Context, capability auth.Capability, query ListNotificationsQuery) (NotificationListResponse, error)
	MarkAsRead(ctx context.Context, capability auth.Capability, req MarkAsReadRequest) (MarkAsReadResponse, error)

	// Subscribe streams notifications for recipientID until the returned func is called.
	Subscribe(ctx context.Context, recipientID string) (<-chan SSEEvent, func())

	// Stop drains the queue and waits for workers.
	Stop()
}
