package notification

import (
	"time"
)

// EventKind is the lifecycle transition an event describes
type EventKind string

const (
	EventCreated  EventKind = "created"
	EventApproved EventKind = "approved"
	EventRejected EventKind = "rejected"
)

// NotificationType is the persisted form of an event kind
type NotificationType string

const (
	TypeLeaveRequest  NotificationType = "leave_request"
	TypeLeaveApproved NotificationType = "leave_approved"
	TypeLeaveRejected NotificationType = "leave_rejected"
)

func (k EventKind) NotificationType() NotificationType {
	switch k {
	case EventApproved:
		return TypeLeaveApproved
	case EventRejected:
		return TypeLeaveRejected
	default:
		return TypeLeaveRequest
	}
}

// Event describes one leave request transition. It is a value; the core
// never stores it.
type Event struct {
	Kind EventKind
	// RecipientID is the request owner. Created events are additionally
	// fanned out to every active admin by the dispatcher.
	RecipientID string
	ActorID     string
	RequestID   string
	At          time.Time
}

// Notification is one delivered inbox entry
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	RequestID   string
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
