package leave

import (
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/pkg/validator"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// CreateLeaveRequestRequest is the submission body. Shape is checked here;
// range and reason rules belong to the registry.
type CreateLeaveRequestRequest struct {
	LeaveType string `json:"leave_type" validate:"required,oneof=vacation sick personal emergency maternity paternity"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"max=1000"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	return validator.Struct(r)
}

// Dates returns the parsed start and end dates of a validated request
func (r CreateLeaveRequestRequest) Dates() (time.Time, time.Time, error) {
	var errs validator.ValidationErrors

	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, ok := validator.IsValidDate(r.EndDate)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}
	return start, end, nil
}

// RejectRequestRequest is the body of a reject call
type RejectRequestRequest struct {
	RejectionReason string `json:"rejection_reason" validate:"max=1000"`
}

func (r *RejectRequestRequest) Validate() error {
	return validator.Struct(r)
}

// DecideRequest is an administrator decision routed to the approval workflow
type DecideRequest struct {
	RequestID       string
	Decision        Decision
	RejectionReason *string
}

// ListLeaveRequestsQuery carries listing filters from the query string
type ListLeaveRequestsQuery struct {
	Status string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	Limit  int    `json:"limit" validate:"gte=0,lte=100"`
	Offset int    `json:"offset" validate:"gte=0"`
}

func (q *ListLeaveRequestsQuery) Validate() error {
	return validator.Struct(q)
}

// ToFilter converts a validated query into a repository filter
func (q ListLeaveRequestsQuery) ToFilter() LeaveRequestFilter {
	filter := LeaveRequestFilter{
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if filter.Limit == 0 {
		filter.Limit = DefaultPageSize
	}
	if status := LeaveRequestStatus(q.Status); status.IsValid() {
		filter.Status = &status
	}
	return filter
}

// ListBalancesQuery selects balance rows of one employee
type ListBalancesQuery struct {
	Year      int    `json:"year" validate:"omitempty,gte=1900,lte=9999"`
	LeaveType string `json:"type" validate:"omitempty,oneof=vacation sick personal emergency maternity paternity"`
}

func (q *ListBalancesQuery) Validate() error {
	return validator.Struct(q)
}

// LeaveRequestResponse represents a leave request in API responses
type LeaveRequestResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	LeaveType       string     `json:"leave_type"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	TotalDays       int        `json:"total_days"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
}

func ToLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		LeaveType:       string(r.LeaveType),
		StartDate:       r.StartDate.Format(dateLayout),
		EndDate:         r.EndDate.Format(dateLayout),
		TotalDays:       r.TotalDays,
		Reason:          r.Reason,
		Status:          string(r.Status),
		RejectionReason: r.RejectionReason,
		ApprovedBy:      r.ApprovedBy,
		CreatedAt:       r.CreatedAt,
		DecidedAt:       r.DecidedAt,
	}
}

// ListLeaveRequestResponse is one page of leave requests
type ListLeaveRequestResponse struct {
	Requests   []LeaveRequestResponse `json:"requests"`
	TotalCount int64                  `json:"total_count"`
	Limit      int                    `json:"limit"`
	Offset     int                    `json:"offset"`
}

func ToListLeaveRequestResponse(requests []LeaveRequest, total int64, filter LeaveRequestFilter) ListLeaveRequestResponse {
	items := make([]LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		items = append(items, ToLeaveRequestResponse(r))
	}
	return ListLeaveRequestResponse{
		Requests:   items,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
}

// LeaveBalanceResponse represents a ledger row in API responses
type LeaveBalanceResponse struct {
	EmployeeID    string `json:"employee_id"`
	LeaveType     string `json:"leave_type"`
	Year          int    `json:"year"`
	TotalDays     int    `json:"total_days"`
	UsedDays      int    `json:"used_days"`
	RemainingDays int    `json:"remaining_days"`
}

func ToLeaveBalanceResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		EmployeeID:    b.EmployeeID,
		LeaveType:     string(b.LeaveType),
		Year:          b.Year,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays(),
	}
}
