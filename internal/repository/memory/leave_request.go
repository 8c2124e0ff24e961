package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
)

type leaveRequestRepository struct {
	*Store
}

func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests[request.ID] = request
	return request, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return request, nil
}

// GetByIDForUpdate cannot lock; Transition is the compare-and-set.
func (r *leaveRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	return r.list(func(req leave.LeaveRequest) bool { return req.EmployeeID == employeeID }, filter)
}

func (r *leaveRequestRepository) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	return r.list(func(leave.LeaveRequest) bool { return true }, filter)
}

func (r *leaveRequestRepository) list(match func(leave.LeaveRequest) bool, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []leave.LeaveRequest
	for _, req := range r.requests {
		if !match(req) {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		matched = append(matched, req)
	}

	// Newest first, ties by id descending
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	return page(matched, filter.Limit, filter.Offset), int64(len(matched)), nil
}

func (r *leaveRequestRepository) Transition(ctx context.Context, t leave.Transition) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[t.ID]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if request.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequest{}, leave.ErrAlreadyDecided
	}

	decidedAt := t.DecidedAt
	request.Status = t.Status
	request.DecidedAt = &decidedAt
	switch t.Status {
	case leave.LeaveRequestStatusApproved:
		decidedBy := t.DecidedBy
		request.ApprovedBy = &decidedBy
	case leave.LeaveRequestStatusRejected:
		request.RejectionReason = t.RejectionReason
	}

	r.requests[t.ID] = request
	return request, nil
}
