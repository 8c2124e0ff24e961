package leave

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/validator"
	"github.com/google/uuid"
)

// Registry owns leave request records and their status state machine.
type Registry struct {
	requests leave.LeaveRequestRepository
	now      func() time.Time
}

func NewRegistry(requests leave.LeaveRequestRepository) *Registry {
	return &Registry{
		requests: requests,
		now:      time.Now,
	}
}

// Create stores a new pending request. Balance sufficiency is not checked here;
// it is enforced when the request is approved.
func (r *Registry) Create(ctx context.Context, employeeID string, leaveType leave.LeaveType, startDate, endDate time.Time, reason string) (leave.LeaveRequest, error) {
	if !leaveType.IsValid() {
		return leave.LeaveRequest{}, leave.ErrInvalidLeaveType
	}

	totalDays, err := leave.CountDays(startDate, endDate)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if totalDays < 1 {
		return leave.LeaveRequest{}, leave.ErrInvalidRange
	}

	if validator.IsEmpty(reason) {
		return leave.LeaveRequest{}, leave.ErrInvalidReason
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to generate leave request id: %w", err)
	}

	created, err := r.requests.Create(ctx, leave.LeaveRequest{
		ID:         id.String(),
		EmployeeID: employeeID,
		LeaveType:  leaveType,
		StartDate:  leave.NormalizeDate(startDate),
		EndDate:    leave.NormalizeDate(endDate),
		TotalDays:  totalDays,
		Reason:     strings.TrimSpace(reason),
		Status:     leave.LeaveRequestStatusPending,
		CreatedAt:  r.now().UTC(),
	})
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// Get loads one request. Ids are always UUIDv7, so anything else is
// reported as not found without a store round-trip.
func (r *Registry) Get(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if !validator.IsValidUUID(id) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r.requests.GetByID(ctx, id)
}

// GetForUpdate is Get that also locks the row inside a transaction.
func (r *Registry) GetForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if !validator.IsValidUUID(id) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r.requests.GetByIDForUpdate(ctx, id)
}

func (r *Registry) ListByEmployee(ctx context.Context, employeeID string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	return r.requests.ListByEmployee(ctx, employeeID, clampPage(filter))
}

func (r *Registry) ListAll(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	return r.requests.List(ctx, clampPage(filter))
}

// Transition moves a pending request to a terminal status. This is the only
// path that changes a request's status.
func (r *Registry) Transition(ctx context.Context, id string, status leave.LeaveRequestStatus, decidedBy string, rejectionReason *string) (leave.LeaveRequest, error) {
	if !status.IsTerminal() {
		return leave.LeaveRequest{}, leave.ErrInvalidDecision
	}
	if !validator.IsValidUUID(id) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}

	t := leave.Transition{
		ID:        id,
		Status:    status,
		DecidedBy: decidedBy,
		DecidedAt: r.now().UTC(),
	}
	if status == leave.LeaveRequestStatusRejected {
		if rejectionReason == nil || validator.IsEmpty(*rejectionReason) {
			return leave.LeaveRequest{}, leave.ErrMissingReason
		}
		reason := strings.TrimSpace(*rejectionReason)
		t.RejectionReason = &reason
	}

	return r.requests.Transition(ctx, t)
}

func clampPage(filter leave.LeaveRequestFilter) leave.LeaveRequestFilter {
	if filter.Limit <= 0 {
		filter.Limit = leave.DefaultPageSize
	}
	if filter.Limit > leave.MaxPageSize {
		filter.Limit = leave.MaxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return filter
}
