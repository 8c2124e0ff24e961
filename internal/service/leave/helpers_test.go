package leave

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/auth"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/notification"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
	"github.com/cmlabs-hris/leave-ledger/internal/repository/memory"
	authservice "github.com/cmlabs-hris/leave-ledger/internal/service/auth"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []notification.Event
}

func (s *recordingSink) Emit(event notification.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) Events() []notification.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notification.Event(nil), s.events...)
}

type fixture struct {
	store    *memory.Store
	sink     *recordingSink
	guard    auth.Guard
	registry *Registry
	ledger   *Ledger
	workflow *Workflow
	service  leave.LeaveService

	admin    auth.Principal
	employee auth.Principal
}

var vacation2024 = leave.BalanceKey{EmployeeID: "emp-1", LeaveType: leave.LeaveTypeVacation, Year: 2024}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	store.PutEmployee(employee.Employee{ID: "admin-1", FullName: "Ada", Role: user.RoleAdmin, IsActive: true})
	store.PutEmployee(employee.Employee{ID: "emp-1", FullName: "Eve", Role: user.RoleEmployee, IsActive: true})
	store.PutBalance(leave.LeaveBalance{
		EmployeeID: "emp-1",
		LeaveType:  leave.LeaveTypeVacation,
		Year:       2024,
		TotalDays:  10,
		UsedDays:   2,
	})

	sink := &recordingSink{}
	registry := NewRegistry(store.LeaveRequests())
	ledger := NewLedger(store.LeaveBalances())
	workflow := NewWorkflow(store.Transactions(), registry, ledger, sink)

	return &fixture{
		store:    store,
		sink:     sink,
		guard:    authservice.NewGuard(),
		registry: registry,
		ledger:   ledger,
		workflow: workflow,
		service:  NewLeaveService(registry, ledger, workflow, sink, time.Second),
		admin:    auth.Principal{ID: "admin-1", Role: user.RoleAdmin, Active: true},
		employee: auth.Principal{ID: "emp-1", Role: user.RoleEmployee, Active: true},
	}
}

func (f *fixture) capability(t *testing.T, p auth.Principal, action user.Action) auth.Capability {
	t.Helper()
	c, err := f.guard.Authorize(p, action, "")
	require.NoError(t, err)
	return c
}

func (f *fixture) submit(t *testing.T, start, end string) leave.LeaveRequestResponse {
	t.Helper()
	resp, err := f.service.CreateLeaveRequest(context.Background(), f.capability(t, f.employee, user.ActionSubmit), leave.CreateLeaveRequestRequest{
		LeaveType: "vacation",
		StartDate: start,
		EndDate:   end,
		Reason:    "family trip",
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) decide(t *testing.T, requestID string, decision leave.Decision, reason *string) (leave.LeaveRequestResponse, error) {
	t.Helper()
	return f.service.Decide(context.Background(), f.capability(t, f.admin, user.ActionDecide), leave.DecideRequest{
		RequestID:       requestID,
		Decision:        decision,
		RejectionReason: reason,
	})
}

func (f *fixture) balance(t *testing.T) leave.LeaveBalance {
	t.Helper()
	b, err := f.ledger.GetBalance(context.Background(), vacation2024)
	require.NoError(t, err)
	return b
}

func ptr[T any](v T) *T {
	return &v
}
