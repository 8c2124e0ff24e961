package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/auth"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
	}
}

// ResolvePrincipal implements employee.EmployeeService. A missing profile is
// an error, never a default principal.
func (s *EmployeeServiceImpl) ResolvePrincipal(ctx context.Context, employeeID string) (auth.Principal, error) {
	if employeeID == "" {
		return auth.Principal{}, auth.ErrPrincipalNotFound
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.Principal{}, auth.ErrPrincipalNotFound
		}
		return auth.Principal{}, fmt.Errorf("failed to resolve principal: %w", err)
	}
	if !emp.Role.IsValid() {
		return auth.Principal{}, fmt.Errorf("employee %s: %w", emp.ID, user.ErrInvalidRole)
	}

	return auth.Principal{
		ID:     emp.ID,
		Role:   emp.Role,
		Active: emp.IsActive,
	}, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, capability auth.Capability, employeeID string) (employee.EmployeeResponse, error) {
	if !capability.Allows(user.ActionListAll) && !capability.Allows(user.ActionListOwn) {
		return employee.EmployeeResponse{}, auth.Denied(user.ActionListOwn, auth.ReasonInsufficientRole)
	}
	if !capability.CanAccess(employeeID) {
		return employee.EmployeeResponse{}, auth.Denied(capability.Action(), auth.ReasonNotOwner)
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return employee.ToEmployeeResponse(emp), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, capability auth.Capability, query employee.ListEmployeesQuery) (employee.ListEmployeesResponse, error) {
	if err := capability.Require(user.ActionListAll); err != nil {
		return employee.ListEmployeesResponse{}, err
	}
	if err := query.Validate(); err != nil {
		return employee.ListEmployeesResponse{}, err
	}

	filter := query.ToFilter()
	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeesResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, employee.ToEmployeeResponse(emp))
	}

	return employee.ListEmployeesResponse{
		Employees:  responses,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// ToggleActivation implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ToggleActivation(ctx context.Context, capability auth.Capability, employeeID string) (employee.EmployeeResponse, error) {
	if err := capability.Require(user.ActionToggleActivation); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !capability.CanAccess(employeeID) {
		return employee.EmployeeResponse{}, auth.Denied(user.ActionToggleActivation, auth.ReasonNotOwner)
	}

	emp, err := s.employeeRepo.ToggleActive(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to toggle employee activation: %w", err)
	}

	slog.Info("employee activation toggled",
		"employee_id", emp.ID,
		"is_active", emp.IsActive,
		"by", capability.CallerID(),
	)
	return employee.ToEmployeeResponse(emp), nil
}
