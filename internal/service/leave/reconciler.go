package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
)

// Reconciler credits back debits that were never followed by an approval.
// Only journal activity older than the grace period is considered, so an
// in-flight decision is never undone.
type Reconciler struct {
	balances leave.LeaveBalanceRepository
	ledger   *Ledger
	grace    time.Duration
	now      func() time.Time
}

func NewReconciler(balances leave.LeaveBalanceRepository, ledger *Ledger, grace time.Duration) *Reconciler {
	return &Reconciler{
		balances: balances,
		ledger:   ledger,
		grace:    grace,
		now:      time.Now,
	}
}

// Reconcile returns how many orphaned debits were credited back. It keeps
// going past individual failures and reports them joined.
func (r *Reconciler) Reconcile(ctx context.Context) (int, error) {
	orphans, err := r.balances.ListOrphanedDebits(ctx, r.now().Add(-r.grace))
	if err != nil {
		return 0, fmt.Errorf("failed to list orphaned debits: %w", err)
	}
	if len(orphans) == 0 {
		slog.Debug("no orphaned leave debits found")
		return 0, nil
	}

	var (
		credited int
		errs     []error
	)
	for _, orphan := range orphans {
		if _, err := r.ledger.Credit(ctx, orphan.BalanceKey, orphan.Days, orphan.RequestID); err != nil {
			errs = append(errs, fmt.Errorf("request %s: %w", orphan.RequestID, err))
			continue
		}
		credited++
	}

	slog.Info("leave ledger reconciled", "orphans", len(orphans), "credited", credited)
	return credited, errors.Join(errs...)
}
