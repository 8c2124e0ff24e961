package employee

import (
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/validator"
)

// EmployeeResponse represents employee data in API responses
type EmployeeResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		FullName:  e.FullName,
		Role:      string(e.Role),
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ListEmployeesResponse is a page of employees
type ListEmployeesResponse struct {
	Employees  []EmployeeResponse `json:"employees"`
	TotalCount int64              `json:"total_count"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}

// ListEmployeesQuery carries the admin listing filters from the query string
type ListEmployeesQuery struct {
	Role     string `json:"role" validate:"omitempty,oneof=admin employee"`
	IsActive *bool  `json:"is_active"`
	Limit    int    `json:"limit" validate:"gte=0,lte=100"`
	Offset   int    `json:"offset" validate:"gte=0"`
}

func (q *ListEmployeesQuery) Validate() error {
	return validator.Struct(q)
}

// ToFilter converts a validated query into a repository filter
func (q ListEmployeesQuery) ToFilter() EmployeeFilter {
	filter := EmployeeFilter{
		IsActive: q.IsActive,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	if q.Role != "" {
		role := user.Role(q.Role)
		filter.Role = &role
	}
	return filter
}
