package leave

import (
	"context"
	"time"
)

// LeaveRequestFilter narrows request listings. Results are always newest first.
type LeaveRequestFilter struct {
	Status *LeaveRequestStatus
	Limit  int
	Offset int
}

// Transition is the single mutation a pending request can receive
type Transition struct {
	ID              string
	Status          LeaveRequestStatus
	DecidedBy       string
	RejectionReason *string
	DecidedAt       time.Time
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	// GetByIDForUpdate locks the row for the enclosing transaction, if any.
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID string, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)
	// Transition applies t only while the row is still pending. It returns
	// ErrAlreadyDecided when another caller won, ErrLeaveRequestNotFound when
	// the row does not exist.
	Transition(ctx context.Context, t Transition) (LeaveRequest, error)
}

// LeaveBalanceRepository - interface for leave_balances and its journal
type LeaveBalanceRepository interface {
	Get(ctx context.Context, key BalanceKey) (LeaveBalance, error)
	ListByEmployee(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)
	// Debit adds days to used_days only if remaining covers it, and journals
	// the change in the same statement. ErrNoAllocation when the row is
	// absent, ErrInsufficientBalance when it cannot cover days.
	Debit(ctx context.Context, key BalanceKey, days int, requestID string, at time.Time) (LeaveBalance, error)
	// Credit subtracts days from used_days, floored at zero, and journals it.
	Credit(ctx context.Context, key BalanceKey, days int, requestID string, at time.Time) (LeaveBalance, error)
	// ListOrphanedDebits returns, per request, the net debited days still
	// charged for requests that are not approved, considering only journal
	// activity older than before.
	ListOrphanedDebits(ctx context.Context, before time.Time) ([]BalanceEntry, error)
}

// TransactionManager runs fn so that every repository call made with the
// context it receives commits or rolls back together.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// Atomic is false when a failed fn leaves its earlier writes in place,
	// so callers must compensate themselves.
	Atomic() bool
}
