package auth

import "github.com/cmlabs-hris/leave-ledger/internal/domain/user"

// Principal is the caller as resolved for a single request.
type Principal struct {
	ID     string
	Role   user.Role
	Active bool
}

// Capability is the result of a successful authorization. It names the one
// action it permits and the employee the caller may act on; an empty target
// means every employee. Only the Guard issues capabilities.
type Capability struct {
	callerID string
	role     user.Role
	action   user.Action
	target   string
}

// NewCapability is used by Guard implementations.
func NewCapability(p Principal, action user.Action, target string) Capability {
	return Capability{
		callerID: p.ID,
		role:     p.Role,
		action:   action,
		target:   target,
	}
}

func (c Capability) CallerID() string {
	return c.callerID
}

func (c Capability) Role() user.Role {
	return c.role
}

func (c Capability) Action() user.Action {
	return c.action
}

// Target is the scoped employee id, or "" when the capability spans all employees.
func (c Capability) Target() string {
	return c.target
}

// Allows reports whether this capability was issued for action.
func (c Capability) Allows(action user.Action) bool {
	return c.callerID != "" && c.action == action
}

// CanAccess reports whether employeeID falls inside the capability's scope.
func (c Capability) CanAccess(employeeID string) bool {
	return c.target == "" || c.target == employeeID
}

// Require returns a Denied error unless the capability was issued for action.
func (c Capability) Require(action user.Action) error {
	if !c.Allows(action) {
		return Denied(action, ReasonInsufficientRole)
	}
	return nil
}
