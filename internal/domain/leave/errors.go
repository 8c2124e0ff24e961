package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrBalanceNotFound      = errors.New("leave balance not found")

	// Creation input
	ErrInvalidRange     = errors.New("end date must not be before start date")
	ErrInvalidReason    = errors.New("reason must not be empty")
	ErrInvalidLeaveType = errors.New("invalid leave type")

	// Transitions
	ErrInvalidDecision = errors.New("decision must be approve or reject")
	ErrAlreadyDecided  = errors.New("leave request already decided")
	ErrMissingReason   = errors.New("rejection reason is required")

	// Ledger
	ErrNoAllocation        = errors.New("no leave allocation configured")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrInvalidDays         = errors.New("days must be at least 1")
)
