package employee

import (
	"context"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/auth"
)

type EmployeeService interface {
	// ResolvePrincipal loads the caller's current role and active flag.
	ResolvePrincipal(ctx context.Context, employeeID string) (auth.Principal, error)
	GetEmployee(ctx context.Context, capability auth.Capability, employeeID string) (EmployeeResponse, error)
	ListEmployees(ctx context.Context, capability auth.Capability, query ListEmployeesQuery) (ListEmployeesResponse, error)
	ToggleActivation(ctx context.Context, capability auth.Capability, employeeID string) (EmployeeResponse, error)
}
