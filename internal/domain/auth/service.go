package auth

import "github.com/cmlabs-hris/leave-ledger/internal/domain/user"

// Guard resolves a caller into a capability for one action. It has no side effects.
type Guard interface {
	Authorize(p Principal, action user.Action, target string) (Capability, error)
	// AuthorizeView issues list_all for admins and a self-scoped list_own for everyone else.
	AuthorizeView(p Principal, target string) (Capability, error)
}
