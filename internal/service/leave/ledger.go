package leave

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
)

// Ledger owns the per employee, type and year balance rows. Debit and credit
// are only called by the approval workflow and the reconciler.
type Ledger struct {
	balances leave.LeaveBalanceRepository
	now      func() time.Time
}

func NewLedger(balances leave.LeaveBalanceRepository) *Ledger {
	return &Ledger{
		balances: balances,
		now:      time.Now,
	}
}

func (l *Ledger) GetBalance(ctx context.Context, key leave.BalanceKey) (leave.LeaveBalance, error) {
	return l.balances.Get(ctx, key)
}

func (l *Ledger) ListBalances(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	return l.balances.ListByEmployee(ctx, employeeID, year)
}

// Debit charges days against the row for key. The sufficiency check and the
// update happen in one store operation.
func (l *Ledger) Debit(ctx context.Context, key leave.BalanceKey, days int, requestID string) (leave.LeaveBalance, error) {
	if days < 1 {
		return leave.LeaveBalance{}, leave.ErrInvalidDays
	}

	balance, err := l.balances.Debit(ctx, key, days, requestID, l.now().UTC())
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	slog.Info("leave balance debited",
		"employee_id", key.EmployeeID,
		"leave_type", key.LeaveType,
		"year", key.Year,
		"days", days,
		"remaining_days", balance.RemainingDays(),
		"request_id", requestID,
	)
	return balance, nil
}

// Credit returns days to the row for key. used_days never drops below zero.
func (l *Ledger) Credit(ctx context.Context, key leave.BalanceKey, days int, requestID string) (leave.LeaveBalance, error) {
	if days < 1 {
		return leave.LeaveBalance{}, leave.ErrInvalidDays
	}

	balance, err := l.balances.Credit(ctx, key, days, requestID, l.now().UTC())
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	slog.Info("leave balance credited",
		"employee_id", key.EmployeeID,
		"leave_type", key.LeaveType,
		"year", key.Year,
		"days", days,
		"remaining_days", balance.RemainingDays(),
		"request_id", requestID,
	)
	return balance, nil
}
