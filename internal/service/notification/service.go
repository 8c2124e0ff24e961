package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/auth"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/notification"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 2 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo      notification.Repository
	employees employee.EmployeeRepository
	requests  leave.LeaveRequestRepository
	hub       *sse.Hub
	config    Config

	queue    chan notification.Event
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool
	dropped  atomic.Int64
}

// NewNotificationService starts the dispatcher workers. Events are delivered
// at most once: a full queue or a failed insert loses them.
func NewNotificationService(repo notification.Repository, employees employee.EmployeeRepository, requests leave.LeaveRequestRepository, hub *sse.Hub, cfg Config) notification.Service {
	// Set defaults
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 2 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:      repo,
		employees: employees,
		requests:  requests,
		hub:       hub,
		config:    cfg,
		queue:     make(chan notification.Event, cfg.QueueSize),
		stopCh:    make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification dispatcher started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval,
	)

	return s
}

// Emit implements notification.Sink. It never blocks.
func (s *service) Emit(event notification.Event) {
	if s.stopped.Load() {
		s.drop(event, "dispatcher stopped")
		return
	}
	select {
	case s.queue <- event:
	default:
		s.drop(event, notification.ErrQueueFull.Error())
	}
}

func (s *service) drop(event notification.Event, reason string) {
	s.dropped.Add(1)
	slog.Warn("notification dropped",
		"kind", event.Kind,
		"request_id", event.RequestID,
		"recipient_id", event.RecipientID,
		"reason", reason,
	)
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.Event, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.deliver(id, batch)
		batch = batch[:0]
	}

	for {
		select {
		case event := <-s.queue:
			batch = append(batch, event)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// Drain what was accepted before Stop
			for {
				select {
				case event := <-s.queue:
					batch = append(batch, event)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (s *service) deliver(workerID int, events []notification.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var notifications []notification.Notification
	for _, event := range events {
		notifications = append(notifications, s.format(ctx, event)...)
	}
	if len(notifications) == 0 {
		return
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		slog.Warn("failed to persist notifications", "worker", workerID, "count", len(notifications), "error", err)
		return
	}
	slog.Debug("notifications delivered", "worker", workerID, "count", len(notifications))

	for _, n := range notifications {
		s.hub.Publish(sse.Event{
			RecipientID: n.RecipientID,
			Name:        "notification",
			Data:        notification.ToNotificationResponse(n),
		})
	}
}

// format renders one event into an inbox entry per recipient. Created events
// reach the submitter and every active admin; decisions reach the owner.
func (s *service) format(ctx context.Context, event notification.Event) []notification.Notification {
	recipients := []string{event.RecipientID}
	if event.Kind == notification.EventCreated {
		admins, err := s.employees.ListActiveAdmins(ctx)
		if err != nil {
			slog.Warn("failed to resolve admin recipients", "request_id", event.RequestID, "error", err)
		}
		for _, a := range admins {
			if a.ID != event.RecipientID {
				recipients = append(recipients, a.ID)
			}
		}
	}

	title, message := s.render(ctx, event)

	var sender *string
	if event.ActorID != "" {
		actor := event.ActorID
		sender = &actor
	}

	result := make([]notification.Notification, 0, len(recipients))
	for _, recipientID := range recipients {
		result = append(result, notification.Notification{
			ID:          uuid.Must(uuid.NewV7()).String(),
			RecipientID: recipientID,
			SenderID:    sender,
			Type:        event.Kind.NotificationType(),
			Title:       title,
			Message:     message,
			RequestID:   event.RequestID,
			CreatedAt:   event.At,
		})
	}
	return result
}

func (s *service) render(ctx context.Context, event notification.Event) (string, string) {
	var title, verb string
	switch event.Kind {
	case notification.EventApproved:
		title, verb = "Leave request approved", "was approved"
	case notification.EventRejected:
		title, verb = "Leave request rejected", "was rejected"
	default:
		title, verb = "New leave request", "was submitted"
	}

	request, err := s.requests.GetByID(ctx, event.RequestID)
	if err != nil {
		return title, fmt.Sprintf("Leave request %s %s", event.RequestID, verb)
	}

	message := fmt.Sprintf("%s leave from %s to %s (%d day(s)) %s",
		request.LeaveType,
		request.StartDate.Format("2006-01-02"),
		request.EndDate.Format("2006-01-02"),
		request.TotalDays,
		verb,
	)
	if event.Kind == notification.EventRejected && request.RejectionReason != nil {
		message += ": " + *request.RejectionReason
	}
	return title, message
}

// ListNotifications implements notification.Service.
func (s *service) ListNotifications(ctx context.Context, capability auth.Capability, query notification.ListNotificationsQuery) (notification.NotificationListResponse, error) {
	if err := capability.Require(user.ActionListOwn); err != nil {
		return notification.NotificationListResponse{}, err
	}
	if err := query.Validate(); err != nil {
		return notification.NotificationListResponse{}, err
	}

	filter := query.ToFilter()
	recipientID := capability.Target()

	items, total, err := s.repo.ListByRecipient(ctx, recipientID, filter)
	if err != nil {
		return notification.NotificationListResponse{}, err
	}
	unread, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return notification.NotificationListResponse{}, err
	}

	responses := make([]notification.NotificationResponse, 0, len(items))
	for _, n := range items {
		responses = append(responses, notification.ToNotificationResponse(n))
	}

	return notification.NotificationListResponse{
		Notifications: responses,
		TotalCount:    total,
		UnreadCount:   unread,
		Limit:         filter.Limit,
		Offset:        filter.Offset,
	}, nil
}

// MarkAsRead implements notification.Service.
func (s *service) MarkAsRead(ctx context.Context, capability auth.Capability, req notification.MarkAsReadRequest) (notification.MarkAsReadResponse, error) {
	if err := capability.Require(user.ActionListOwn); err != nil {
		return notification.MarkAsReadResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return notification.MarkAsReadResponse{}, err
	}

	updated, err := s.repo.MarkAsRead(ctx, capability.Target(), req.NotificationIDs)
	if err != nil {
		return notification.MarkAsReadResponse{}, err
	}
	return notification.MarkAsReadResponse{Updated: updated}, nil
}

// Subscribe implements notification.Service.
func (s *service) Subscribe(ctx context.Context, recipientID string) (<-chan notification.SSEEvent, func()) {
	ch, cleanup := s.hub.Subscribe(recipientID)

	out := make(chan notification.SSEEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				resp, ok := event.Data.(notification.NotificationResponse)
				if !ok {
					continue
				}
				select {
				case out <- notification.SSEEvent{Event: event.Name, Data: resp}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop implements notification.Service.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("notification dispatcher stopped", "dropped", s.dropped.Load())
	})
}
