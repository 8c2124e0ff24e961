package cron

import (
	"context"
	"fmt"
	"time"
)

// Reconciler restores ledger rows whose debits outlived their requests
type Reconciler interface {
	Reconcile(ctx context.Context) (credited int, err error)
}

type LedgerJobs struct {
	reconciler Reconciler
	interval   time.Duration
}

func NewLedgerJobs(reconciler Reconciler, interval time.Duration) *LedgerJobs {
	return &LedgerJobs{
		reconciler: reconciler,
		interval:   interval,
	}
}

func (j *LedgerJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("reconcile_leave_balances", j.interval, j.ReconcileBalances)
}

func (j *LedgerJobs) ReconcileBalances(ctx context.Context) error {
	if _, err := j.reconciler.Reconcile(ctx); err != nil {
		return fmt.Errorf("failed to reconcile leave balances: %w", err)
	}
	return nil
}
