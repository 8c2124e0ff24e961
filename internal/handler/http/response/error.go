package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/auth"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/notification"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/database"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var denied *auth.DeniedError
	if errors.As(err, &denied) {
		Forbidden(w, "Access denied", map[string]string{
			"action": string(denied.Action),
			"reason": string(denied.Reason),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrPrincipalNotFound):
		Unauthorized(w, "Principal not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrInvalidRange):
		Error(w, http.StatusBadRequest, "INVALID_RANGE", "End date must not be before start date", nil)
	case errors.Is(err, leave.ErrInvalidReason):
		Error(w, http.StatusBadRequest, "INVALID_REASON", "Reason must not be empty", nil)
	case errors.Is(err, leave.ErrMissingReason):
		Error(w, http.StatusBadRequest, "MISSING_REASON", "Rejection reason is required", nil)
	case errors.Is(err, leave.ErrInvalidLeaveType):
		Error(w, http.StatusBadRequest, "INVALID_LEAVE_TYPE", "Unknown leave type", nil)
	case errors.Is(err, leave.ErrInvalidDecision):
		Error(w, http.StatusBadRequest, "INVALID_DECISION", "Decision must be approve or reject", nil)
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrAlreadyDecided):
		Conflict(w, "Leave request already decided")
	case errors.Is(err, leave.ErrNoAllocation):
		UnprocessableEntity(w, "NO_ALLOCATION", "No leave allocation for this type and year")
	case errors.Is(err, leave.ErrInsufficientBalance):
		UnprocessableEntity(w, "INSUFFICIENT_BALANCE", "Insufficient leave balance")

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	case errors.Is(err, database.ErrStoreUnavailable):
		ServiceUnavailable(w, "Store temporarily unavailable, retry later")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
