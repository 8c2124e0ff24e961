package user

type Role string

const (
	RoleAdmin    Role = "admin"    // Reviews all requests, manages activation
	RoleEmployee Role = "employee" // Submits and views own requests
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}
