package auth

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
)

var (
	ErrDenied            = errors.New("access denied")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrPrincipalNotFound = errors.New("principal not found")
)

// DenialReason is the machine-readable cause of a Denied result.
type DenialReason string

const (
	ReasonInactive         DenialReason = "inactive"
	ReasonInsufficientRole DenialReason = "insufficient_role"
	ReasonNotOwner         DenialReason = "not_owner"
)

// DeniedError is returned for every authorization failure.
// errors.Is(err, ErrDenied) holds for all of them.
type DeniedError struct {
	Action user.Action
	Reason DenialReason
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("access denied for %s: %s", e.Action, e.Reason)
}

func (e *DeniedError) Is(target error) bool {
	return target == ErrDenied
}

// Denied builds a DeniedError.
func Denied(action user.Action, reason DenialReason) error {
	return &DeniedError{Action: action, Reason: reason}
}
