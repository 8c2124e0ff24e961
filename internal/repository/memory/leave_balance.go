package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
	"github.com/google/uuid"
)

type leaveBalanceRepository struct {
	*Store
}

func (r *leaveBalanceRepository) Get(ctx context.Context, key leave.BalanceKey) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.balances[key]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

func (r *leaveBalanceRepository) ListByEmployee(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := []leave.LeaveBalance{}
	for key, b := range r.balances {
		if key.EmployeeID == employeeID && key.Year == year {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LeaveType < result[j].LeaveType })
	return result, nil
}

func (r *leaveBalanceRepository) Debit(ctx context.Context, key leave.BalanceKey, days int, requestID string, at time.Time) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.balances[key]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrNoAllocation
	}
	if b.RemainingDays() < days {
		return leave.LeaveBalance{}, leave.ErrInsufficientBalance
	}

	b.UsedDays += days
	b.UpdatedAt = at
	r.balances[key] = b
	r.journal(key, leave.EntryKindDebit, days, requestID, at)
	return b, nil
}

func (r *leaveBalanceRepository) Credit(ctx context.Context, key leave.BalanceKey, days int, requestID string, at time.Time) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.balances[key]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrNoAllocation
	}

	b.UsedDays = max(b.UsedDays-days, 0)
	b.UpdatedAt = at
	r.balances[key] = b
	r.journal(key, leave.EntryKindCredit, days, requestID, at)
	return b, nil
}

func (r *leaveBalanceRepository) journal(key leave.BalanceKey, kind leave.EntryKind, days int, requestID string, at time.Time) {
	r.entries = append(r.entries, leave.BalanceEntry{
		ID:         uuid.Must(uuid.NewV7()).String(),
		BalanceKey: key,
		Kind:       kind,
		Days:       days,
		RequestID:  requestID,
		CreatedAt:  at,
	})
}

func (r *leaveBalanceRepository) ListOrphanedDebits(ctx context.Context, before time.Time) ([]leave.BalanceEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	type charge struct {
		key       leave.BalanceKey
		requestID string
	}
	net := make(map[charge]int)
	last := make(map[charge]time.Time)
	var order []charge

	for _, e := range r.entries {
		c := charge{key: e.BalanceKey, requestID: e.RequestID}
		if _, seen := net[c]; !seen {
			order = append(order, c)
		}
		if e.Kind == leave.EntryKindDebit {
			net[c] += e.Days
		} else {
			net[c] -= e.Days
		}
		if e.CreatedAt.After(last[c]) {
			last[c] = e.CreatedAt
		}
	}

	var orphans []leave.BalanceEntry
	for _, c := range order {
		if net[c] <= 0 || last[c].After(before) {
			continue
		}
		if req, ok := r.requests[c.requestID]; ok && req.Status == leave.LeaveRequestStatusApproved {
			continue
		}
		orphans = append(orphans, leave.BalanceEntry{
			BalanceKey: c.key,
			Kind:       leave.EntryKindDebit,
			Days:       net[c],
			RequestID:  c.requestID,
			CreatedAt:  last[c],
		})
	}
	return orphans, nil
}
