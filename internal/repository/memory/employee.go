package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
)

type employeeRepository struct {
	*Store
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []employee.Employee
	for _, e := range r.employees {
		if filter.Role != nil && e.Role != *filter.Role {
			continue
		}
		if filter.IsActive != nil && e.IsActive != *filter.IsActive {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].FullName != matched[j].FullName {
			return matched[i].FullName < matched[j].FullName
		}
		return matched[i].ID < matched[j].ID
	})

	return page(matched, filter.Limit, filter.Offset), int64(len(matched)), nil
}

func (r *employeeRepository) ListActiveAdmins(ctx context.Context) ([]employee.Employee, error) {
	active := true
	role := user.RoleAdmin
	admins, _, err := r.List(ctx, employee.EmployeeFilter{Role: &role, IsActive: &active})
	return admins, err
}

func (r *employeeRepository) ToggleActive(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	e.IsActive = !e.IsActive
	e.UpdatedAt = time.Now().UTC()
	r.employees[id] = e
	return e, nil
}
