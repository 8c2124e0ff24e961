package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveBalanceColumns = `employee_id, leave_type, year, total_days, used_days, created_at, updated_at`

type leaveBalanceRepositoryImpl struct {
	db database.Querier
}

func NewLeaveBalanceRepository(db database.Querier) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(&b.EmployeeID, &b.LeaveType, &b.Year, &b.TotalDays, &b.UsedDays, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, key leave.BalanceKey) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveBalanceColumns + ` FROM leave_balances
		WHERE employee_id = $1 AND leave_type = $2 AND year = $3`

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, key.EmployeeID, key.LeaveType, key.Year))
	if err != nil {
		return leave.LeaveBalance{}, translate(err, leave.ErrBalanceNotFound)
	}
	return b, nil
}

func (r *leaveBalanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveBalanceColumns + ` FROM leave_balances
		WHERE employee_id = $1 AND year = $2
		ORDER BY leave_type`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		if notFound(err) {
			return []leave.LeaveBalance{}, nil
		}
		return nil, database.Classify(fmt.Errorf("list leave balances: %w", err))
	}
	defer rows.Close()

	balances := []leave.LeaveBalance{}
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan leave balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Classify(err)
	}
	return balances, nil
}

// Debit increments used_days only when the remaining days cover the charge.
// The journal entry is written by the same statement.
func (r *leaveBalanceRepositoryImpl) Debit(ctx context.Context, key leave.BalanceKey, days int, requestID string, at time.Time) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH updated AS (
			UPDATE leave_balances
			SET used_days = used_days + $4, updated_at = $6
			WHERE employee_id = $1 AND leave_type = $2 AND year = $3
				AND total_days - used_days >= $4
			RETURNING ` + leaveBalanceColumns + `
		), journal AS (
			INSERT INTO leave_balance_entries (employee_id, leave_type, year, kind, days, request_id, created_at)
			SELECT employee_id, leave_type, year, 'debit', $4, $5, $6 FROM updated
		)
		SELECT ` + leaveBalanceColumns + ` FROM updated`

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, key.EmployeeID, key.LeaveType, key.Year, days, requestID, at))
	if err == nil {
		return b, nil
	}
	if !notFound(err) {
		return leave.LeaveBalance{}, database.Classify(fmt.Errorf("debit leave balance: %w", err))
	}

	exists, err := r.exists(ctx, q, key)
	if err != nil {
		return leave.LeaveBalance{}, err
	}
	if exists {
		return leave.LeaveBalance{}, leave.ErrInsufficientBalance
	}
	return leave.LeaveBalance{}, leave.ErrNoAllocation
}

// Credit decrements used_days, floored at zero, and journals it.
func (r *leaveBalanceRepositoryImpl) Credit(ctx context.Context, key leave.BalanceKey, days int, requestID string, at time.Time) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH updated AS (
			UPDATE leave_balances
			SET used_days = GREATEST(used_days - $4, 0), updated_at = $6
			WHERE employee_id = $1 AND leave_type = $2 AND year = $3
			RETURNING ` + leaveBalanceColumns + `
		), journal AS (
			INSERT INTO leave_balance_entries (employee_id, leave_type, year, kind, days, request_id, created_at)
			SELECT employee_id, leave_type, year, 'credit', $4, $5, $6 FROM updated
		)
		SELECT ` + leaveBalanceColumns + ` FROM updated`

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, key.EmployeeID, key.LeaveType, key.Year, days, requestID, at))
	if err != nil {
		return leave.LeaveBalance{}, translate(err, leave.ErrNoAllocation)
	}
	return b, nil
}

func (r *leaveBalanceRepositoryImpl) exists(ctx context.Context, q database.Querier, key leave.BalanceKey) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM leave_balances WHERE employee_id = $1 AND leave_type = $2 AND year = $3)`,
		key.EmployeeID, key.LeaveType, key.Year,
	).Scan(&exists)
	if err != nil {
		return false, translate(err, leave.ErrNoAllocation)
	}
	return exists, nil
}

func (r *leaveBalanceRepositoryImpl) ListOrphanedDebits(ctx context.Context, before time.Time) ([]leave.BalanceEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.employee_id, e.leave_type, e.year, e.request_id,
			SUM(CASE WHEN e.kind = 'debit' THEN e.days ELSE -e.days END) AS net_days,
			MAX(e.created_at) AS last_at
		FROM leave_balance_entries e
		LEFT JOIN leave_requests lr ON lr.id = e.request_id
		WHERE lr.status IS DISTINCT FROM 'approved'
		GROUP BY e.employee_id, e.leave_type, e.year, e.request_id
		HAVING SUM(CASE WHEN e.kind = 'debit' THEN e.days ELSE -e.days END) > 0
			AND MAX(e.created_at) <= $1
		ORDER BY last_at`

	rows, err := q.Query(ctx, query, before)
	if err != nil {
		return nil, database.Classify(fmt.Errorf("list orphaned debits: %w", err))
	}
	defer rows.Close()

	var orphans []leave.BalanceEntry
	for rows.Next() {
		e := leave.BalanceEntry{Kind: leave.EntryKindDebit}
		if err := rows.Scan(&e.EmployeeID, &e.LeaveType, &e.Year, &e.RequestID, &e.Days, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan orphaned debit: %w", err)
		}
		orphans = append(orphans, e)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Classify(err)
	}
	return orphans, nil
}
