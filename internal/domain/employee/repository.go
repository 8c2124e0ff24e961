package employee

import (
	"context"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
)

// EmployeeFilter narrows employee listings
type EmployeeFilter struct {
	Role     *user.Role
	IsActive *bool
	Limit    int
	Offset   int
}

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	ListActiveAdmins(ctx context.Context) ([]Employee, error)
	// ToggleActive flips is_active in a single statement and returns the updated row.
	ToggleActive(ctx context.Context, id string) (Employee, error)
}
