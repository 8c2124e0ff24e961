package user

// Action is an operation gated by the authorization guard.
type Action string

const (
	ActionSubmit           Action = "submit"
	ActionListOwn          Action = "list_own"
	ActionListAll          Action = "list_all"
	ActionDecide           Action = "decide"
	ActionToggleActivation Action = "toggle_activation"
)

// RoleActions maps roles to the actions they may invoke
var RoleActions = map[Role][]Action{
	RoleAdmin: {
		ActionSubmit,
		ActionListOwn,
		ActionListAll,
		ActionDecide,
		ActionToggleActivation,
	},
	RoleEmployee: {
		ActionSubmit,
		ActionListOwn,
	},
}

// HasPermission checks if a role may invoke a specific action
func HasPermission(role Role, action Action) bool {
	actions, exists := RoleActions[role]
	if !exists {
		return false
	}

	for _, a := range actions {
		if a == action {
			return true
		}
	}

	return false
}

// IsSelfScoped reports whether the action may only target the caller's own records.
func (a Action) IsSelfScoped() bool {
	return a == ActionSubmit || a == ActionListOwn
}
