package auth

import (
	"github.com/cmlabs-hris/leave-ledger/internal/domain/auth"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
)

type GuardImpl struct{}

func NewGuard() auth.Guard {
	return &GuardImpl{}
}

// Authorize implements auth.Guard.
func (g *GuardImpl) Authorize(p auth.Principal, action user.Action, target string) (auth.Capability, error) {
	if p.ID == "" {
		return auth.Capability{}, auth.ErrPrincipalNotFound
	}
	if !p.Active {
		return auth.Capability{}, auth.Denied(action, auth.ReasonInactive)
	}
	if !user.HasPermission(p.Role, action) {
		return auth.Capability{}, auth.Denied(action, auth.ReasonInsufficientRole)
	}

	if action.IsSelfScoped() {
		if target == "" {
			target = p.ID
		}
		if target != p.ID {
			return auth.Capability{}, auth.Denied(action, auth.ReasonNotOwner)
		}
	}

	return auth.NewCapability(p, action, target), nil
}

// AuthorizeView implements auth.Guard.
func (g *GuardImpl) AuthorizeView(p auth.Principal, target string) (auth.Capability, error) {
	if p.Active && user.HasPermission(p.Role, user.ActionListAll) {
		return g.Authorize(p, user.ActionListAll, target)
	}
	return g.Authorize(p, user.ActionListOwn, target)
}
