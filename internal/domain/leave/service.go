package leave

import (
	"context"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/auth"
)

// LeaveService is the capability-checked entry point used by transports.
type LeaveService interface {
	// Request
	CreateLeaveRequest(ctx context.Context, capability auth.Capability, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	GetLeaveRequest(ctx context.Context, capability auth.Capability, requestID string) (LeaveRequestResponse, error)
	ListMyLeaveRequests(ctx context.Context, capability auth.Capability, query ListLeaveRequestsQuery) (ListLeaveRequestResponse, error)
	ListLeaveRequests(ctx context.Context, capability auth.Capability, query ListLeaveRequestsQuery) (ListLeaveRequestResponse, error)
	Decide(ctx context.Context, capability auth.Capability, req DecideRequest) (LeaveRequestResponse, error)
	// Balance
	GetBalance(ctx context.Context, capability auth.Capability, key BalanceKey) (LeaveBalanceResponse, error)
	ListBalances(ctx context.Context, capability auth.Capability, employeeID string, query ListBalancesQuery) ([]LeaveBalanceResponse, error)
}
