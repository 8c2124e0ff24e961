package employee

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/auth"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/validator"
	"github.com/cmlabs-hris/leave-ledger/internal/repository/memory"
	authservice "github.com/cmlabs-hris/leave-ledger/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (employee.EmployeeService, auth.Guard) {
	t.Helper()
	store := memory.NewStore()
	store.PutEmployee(employee.Employee{ID: "admin-1", FullName: "Ada", Role: user.RoleAdmin, IsActive: true})
	store.PutEmployee(employee.Employee{ID: "emp-1", FullName: "Eve", Role: user.RoleEmployee, IsActive: true})
	store.PutEmployee(employee.Employee{ID: "emp-2", FullName: "Bob", Role: user.RoleEmployee, IsActive: false})
	return NewEmployeeService(store.Employees()), authservice.NewGuard()
}

func TestResolvePrincipal(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	p, err := svc.ResolvePrincipal(ctx, "emp-2")
	require.NoError(t, err)
	assert.Equal(t, auth.Principal{ID: "emp-2", Role: user.RoleEmployee, Active: false}, p)

	_, err = svc.ResolvePrincipal(ctx, "ghost")
	assert.ErrorIs(t, err, auth.ErrPrincipalNotFound)

	_, err = svc.ResolvePrincipal(ctx, "")
	assert.ErrorIs(t, err, auth.ErrPrincipalNotFound)
}

func TestToggleActivation(t *testing.T) {
	svc, guard := setup(t)
	ctx := context.Background()

	admin, err := svc.ResolvePrincipal(ctx, "admin-1")
	require.NoError(t, err)
	capability, err := guard.Authorize(admin, user.ActionToggleActivation, "emp-1")
	require.NoError(t, err)

	resp, err := svc.ToggleActivation(ctx, capability, "emp-1")
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	// Deactivated employees are denied by the guard afterwards
	p, err := svc.ResolvePrincipal(ctx, "emp-1")
	require.NoError(t, err)
	_, err = guard.Authorize(p, user.ActionSubmit, "")
	assert.ErrorIs(t, err, auth.ErrDenied)

	// Capability scoped to emp-1 cannot touch emp-2
	_, err = svc.ToggleActivation(ctx, capability, "emp-2")
	assert.ErrorIs(t, err, auth.ErrDenied)

	all, err := guard.Authorize(admin, user.ActionToggleActivation, "")
	require.NoError(t, err)
	_, err = svc.ToggleActivation(ctx, all, "ghost")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestToggleActivation_RequiresCapability(t *testing.T) {
	svc, guard := setup(t)
	ctx := context.Background()

	p, err := svc.ResolvePrincipal(ctx, "emp-1")
	require.NoError(t, err)
	own, err := guard.Authorize(p, user.ActionListOwn, "")
	require.NoError(t, err)

	_, err = svc.ToggleActivation(ctx, own, "emp-1")
	assert.ErrorIs(t, err, auth.ErrDenied)
}

func TestListEmployees(t *testing.T) {
	svc, guard := setup(t)
	ctx := context.Background()

	admin, _ := svc.ResolvePrincipal(ctx, "admin-1")
	capability, err := guard.Authorize(admin, user.ActionListAll, "")
	require.NoError(t, err)

	active := true
	resp, err := svc.ListEmployees(ctx, capability, employee.ListEmployeesQuery{IsActive: &active})
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.TotalCount)
	assert.Equal(t, 20, resp.Limit)

	resp, err = svc.ListEmployees(ctx, capability, employee.ListEmployeesQuery{Role: "employee", Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.TotalCount)
	assert.Len(t, resp.Employees, 1)

	_, err = svc.ListEmployees(ctx, capability, employee.ListEmployeesQuery{Role: "boss"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestGetEmployee(t *testing.T) {
	svc, guard := setup(t)
	ctx := context.Background()

	p, _ := svc.ResolvePrincipal(ctx, "emp-1")
	own, err := guard.AuthorizeView(p, "")
	require.NoError(t, err)

	resp, err := svc.GetEmployee(ctx, own, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Eve", resp.FullName)

	_, err = svc.GetEmployee(ctx, own, "admin-1")
	assert.ErrorIs(t, err, auth.ErrDenied)
}
