package notification

import (
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/pkg/validator"
)

// ============= Request DTOs =============

// ListNotificationsQuery represents a request to list the caller's notifications
type ListNotificationsQuery struct {
	Unread *bool `json:"unread"`
	Limit  int   `json:"limit" validate:"gte=0,lte=100"`
	Offset int   `json:"offset" validate:"gte=0"`
}

func (q *ListNotificationsQuery) Validate() error {
	return validator.Struct(q)
}

func (q ListNotificationsQuery) ToFilter() ListFilter {
	filter := ListFilter{
		UnreadOnly: q.Unread != nil && *q.Unread,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	return filter
}

// MarkAsReadRequest represents a request to mark notifications as read
type MarkAsReadRequest struct {
	NotificationIDs []string `json:"notification_ids" validate:"required,min=1,dive,required"`
}

func (r *MarkAsReadRequest) Validate() error {
	return validator.Struct(r)
}

// ============= Response DTOs =============

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	RequestID string           `json:"request_id"`
	IsRead    bool             `json:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func ToNotificationResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		RequestID: n.RequestID,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// NotificationListResponse represents a paginated list of notifications
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	TotalCount    int64                  `json:"total_count"`
	UnreadCount   int64                  `json:"unread_count"`
	Limit         int                    `json:"limit"`
	Offset        int                    `json:"offset"`
}

type MarkAsReadResponse struct {
	Updated int64 `json:"updated"`
}

// ============= SSE Event =============

// SSEEvent represents a Server-Sent Event
type SSEEvent struct {
	Event string               `json:"event"`
	Data  NotificationResponse `json:"data"`
}
