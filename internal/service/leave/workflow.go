package leave

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/auth"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/notification"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/validator"
)

// Workflow applies administrator decisions. An approval debits the ledger
// before the request leaves pending, and both commit together.
type Workflow struct {
	tx       leave.TransactionManager
	registry *Registry
	ledger   *Ledger
	sink     notification.Sink
	now      func() time.Time
}

func NewWorkflow(tx leave.TransactionManager, registry *Registry, ledger *Ledger, sink notification.Sink) *Workflow {
	return &Workflow{
		tx:       tx,
		registry: registry,
		ledger:   ledger,
		sink:     sink,
		now:      time.Now,
	}
}

func (w *Workflow) Decide(ctx context.Context, capability auth.Capability, requestID string, decision leave.Decision, rejectionReason *string) (leave.LeaveRequest, error) {
	if err := capability.Require(user.ActionDecide); err != nil {
		return leave.LeaveRequest{}, err
	}
	if !decision.IsValid() {
		return leave.LeaveRequest{}, leave.ErrInvalidDecision
	}

	var (
		decided  leave.LeaveRequest
		debited  bool
		request  leave.LeaveRequest
		debitKey leave.BalanceKey
	)
	err := w.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		request, err = w.registry.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if !capability.CanAccess(request.EmployeeID) {
			return auth.Denied(user.ActionDecide, auth.ReasonNotOwner)
		}
		if request.Status != leave.LeaveRequestStatusPending {
			return leave.ErrAlreadyDecided
		}
		if decision == leave.DecisionReject && (rejectionReason == nil || validator.IsEmpty(*rejectionReason)) {
			return leave.ErrMissingReason
		}

		if decision == leave.DecisionApprove {
			debitKey = request.BalanceKey()
			if _, err := w.ledger.Debit(ctx, debitKey, request.TotalDays, request.ID); err != nil {
				return err
			}
			debited = true
		}

		decided, err = w.registry.Transition(ctx, request.ID, decision.TargetStatus(), capability.CallerID(), rejectionReason)
		return err
	})
	if err != nil {
		if debited && !w.tx.Atomic() {
			w.compensate(ctx, debitKey, request, err)
		}
		return leave.LeaveRequest{}, err
	}

	slog.Info("leave request decided",
		"request_id", decided.ID,
		"employee_id", decided.EmployeeID,
		"status", decided.Status,
		"decided_by", capability.CallerID(),
	)

	kind := notification.EventApproved
	if decided.Status == leave.LeaveRequestStatusRejected {
		kind = notification.EventRejected
	}
	w.sink.Emit(notification.Event{
		Kind:        kind,
		RecipientID: decided.EmployeeID,
		ActorID:     capability.CallerID(),
		RequestID:   decided.ID,
		At:          w.now().UTC(),
	})

	return decided, nil
}

// compensate credits back a debit whose transition did not commit. A failure
// here leaves the debit for the reconciler.
func (w *Workflow) compensate(ctx context.Context, key leave.BalanceKey, request leave.LeaveRequest, cause error) {
	ctx = context.WithoutCancel(ctx)
	if _, err := w.ledger.Credit(ctx, key, request.TotalDays, request.ID); err != nil {
		slog.Warn("compensating credit failed",
			"request_id", request.ID,
			"cause", cause,
			"error", err,
		)
		return
	}
	slog.Warn("leave balance debit compensated", "request_id", request.ID, "cause", cause)
}

