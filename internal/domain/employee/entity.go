package employee

import (
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
)

// Employee is the identity record the leave core reads. Profile fields are
// owned by the profile subsystem; only ID, Role and IsActive drive decisions.
type Employee struct {
	ID        string
	FullName  string
	Role      user.Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin checks if the employee holds the admin role
func (e *Employee) IsAdmin() bool {
	return e.Role == user.RoleAdmin
}
