package leave

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/auth"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	submitCap := f.capability(t, f.employee, user.ActionSubmit)

	tests := []struct {
		name    string
		req     leave.CreateLeaveRequestRequest
		wantErr error
		invalid bool
	}{
		{"range", leave.CreateLeaveRequestRequest{LeaveType: "vacation", StartDate: "2024-06-14", EndDate: "2024-06-10", Reason: "x"}, leave.ErrInvalidRange, false},
		{"reason", leave.CreateLeaveRequestRequest{LeaveType: "vacation", StartDate: "2024-06-10", EndDate: "2024-06-10", Reason: " "}, leave.ErrInvalidReason, false},
		{"type", leave.CreateLeaveRequestRequest{LeaveType: "holiday", StartDate: "2024-06-10", EndDate: "2024-06-10", Reason: "x"}, nil, true},
		{"date format", leave.CreateLeaveRequestRequest{LeaveType: "sick", StartDate: "10/06/2024", EndDate: "2024-06-10", Reason: "x"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateLeaveRequest(ctx, submitCap, tt.req)
			require.Error(t, err)
			if tt.invalid {
				var verrs validator.ValidationErrors
				assert.ErrorAs(t, err, &verrs)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.sink.Events())
}

func TestService_CreateRequiresSubmitCapability(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.CreateLeaveRequest(context.Background(), f.capability(t, f.admin, user.ActionDecide), leave.CreateLeaveRequestRequest{
		LeaveType: "vacation", StartDate: "2024-06-10", EndDate: "2024-06-10", Reason: "x",
	})
	assert.ErrorIs(t, err, auth.ErrDenied)
}

func TestService_GetLeaveRequestOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.submit(t, "2024-06-10", "2024-06-11")

	own, err := f.guard.AuthorizeView(f.employee, "")
	require.NoError(t, err)
	got, err := f.service.GetLeaveRequest(ctx, own, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)
	assert.Equal(t, "2024-06-10", got.StartDate)

	other := auth.Principal{ID: "emp-9", Role: user.RoleEmployee, Active: true}
	otherCap, err := f.guard.AuthorizeView(other, "")
	require.NoError(t, err)
	_, err = f.service.GetLeaveRequest(ctx, otherCap, req.ID)
	var denied *auth.DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, auth.ReasonNotOwner, denied.Reason)

	adminCap, err := f.guard.AuthorizeView(f.admin, "")
	require.NoError(t, err)
	_, err = f.service.GetLeaveRequest(ctx, adminCap, req.ID)
	assert.NoError(t, err)

	_, err = f.service.GetLeaveRequest(ctx, adminCap, "missing")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestService_Listing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.submit(t, "2024-06-10", "2024-06-11")
	f.submit(t, "2024-07-10", "2024-07-11")
	_, err := f.decide(t, first.ID, leave.DecisionApprove, nil)
	require.NoError(t, err)

	mine, err := f.service.ListMyLeaveRequests(ctx, f.capability(t, f.employee, user.ActionListOwn), leave.ListLeaveRequestsQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, mine.TotalCount)
	assert.Equal(t, leave.DefaultPageSize, mine.Limit)

	listAll := f.capability(t, f.admin, user.ActionListAll)
	pending, err := f.service.ListLeaveRequests(ctx, listAll, leave.ListLeaveRequestsQuery{Status: "pending"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending.TotalCount)

	_, err = f.service.ListLeaveRequests(ctx, listAll, leave.ListLeaveRequestsQuery{Status: "cancelled"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = f.service.ListLeaveRequests(ctx, f.capability(t, f.employee, user.ActionListOwn), leave.ListLeaveRequestsQuery{})
	assert.ErrorIs(t, err, auth.ErrDenied)

	scoped, err := f.guard.Authorize(f.admin, user.ActionListAll, "emp-9")
	require.NoError(t, err)
	none, err := f.service.ListLeaveRequests(ctx, scoped, leave.ListLeaveRequestsQuery{})
	require.NoError(t, err)
	assert.Zero(t, none.TotalCount)
}

func TestService_Balances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	own, err := f.guard.AuthorizeView(f.employee, "")
	require.NoError(t, err)

	b, err := f.service.GetBalance(ctx, own, vacation2024)
	require.NoError(t, err)
	assert.Equal(t, 8, b.RemainingDays)

	list, err := f.service.ListBalances(ctx, own, "", leave.ListBalancesQuery{Year: 2024})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "vacation", list[0].LeaveType)

	list, err = f.service.ListBalances(ctx, own, "", leave.ListBalancesQuery{Year: 2024, LeaveType: "sick"})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.service.ListBalances(ctx, own, "admin-1", leave.ListBalancesQuery{Year: 2024})
	assert.ErrorIs(t, err, auth.ErrDenied)

	adminView, err := f.guard.AuthorizeView(f.admin, "emp-1")
	require.NoError(t, err)
	list, err = f.service.ListBalances(ctx, adminView, "emp-1", leave.ListBalancesQuery{Year: 2024})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.service.GetBalance(ctx, own, leave.BalanceKey{EmployeeID: "emp-1", LeaveType: leave.LeaveTypeSick, Year: 2024})
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)
}
