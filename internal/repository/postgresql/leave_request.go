package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `id, employee_id, leave_type, start_date, end_date, total_days, reason,
		status, rejection_reason, approved_by, created_at, decided_at`

type leaveRequestRepositoryImpl struct {
	db database.Querier
}

func NewLeaveRequestRepository(db database.Querier) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID,
		&lr.EmployeeID,
		&lr.LeaveType,
		&lr.StartDate,
		&lr.EndDate,
		&lr.TotalDays,
		&lr.Reason,
		&lr.Status,
		&lr.RejectionReason,
		&lr.ApprovedBy,
		&lr.CreatedAt,
		&lr.DecidedAt,
	)
	return lr, err
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type, start_date, end_date, total_days, reason, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + leaveRequestColumns

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		request.ID,
		request.EmployeeID,
		request.LeaveType,
		request.StartDate,
		request.EndDate,
		request.TotalDays,
		request.Reason,
		request.Status,
		request.CreatedAt,
	))
	if err != nil {
		return leave.LeaveRequest{}, database.Classify(fmt.Errorf("insert leave request: %w", err))
	}
	return created, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		return leave.LeaveRequest{}, translate(err, leave.ErrLeaveRequestNotFound)
	}
	return lr, nil
}

func (r *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1 FOR UPDATE`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		return leave.LeaveRequest{}, translate(err, leave.ErrLeaveRequestNotFound)
	}
	return lr, nil
}

func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	return r.list(ctx, []string{"employee_id = $1"}, []interface{}{employeeID}, filter)
}

func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	return r.list(ctx, nil, nil, filter)
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, where []string, args []interface{}, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM leave_requests`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, database.Classify(fmt.Errorf("count leave requests: %w", err))
	}

	pageArgs := append(append([]interface{}{}, args...), filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM leave_requests%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		leaveRequestColumns, whereClause, len(args)+1, len(args)+2)

	rows, err := q.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, database.Classify(fmt.Errorf("list leave requests: %w", err))
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, database.Classify(err)
	}

	return requests, total, nil
}

// Transition is a compare-and-set on status: the row changes only while it
// is still pending.
func (r *leaveRequestRepositoryImpl) Transition(ctx context.Context, t leave.Transition) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	var approvedBy *string
	if t.Status == leave.LeaveRequestStatusApproved {
		approvedBy = &t.DecidedBy
	}

	query := `
		UPDATE leave_requests
		SET status = $2, decided_at = $3, approved_by = $4, rejection_reason = $5
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + leaveRequestColumns

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, t.ID, t.Status, t.DecidedAt, approvedBy, t.RejectionReason))
	if err == nil {
		return lr, nil
	}
	if !notFound(err) {
		return leave.LeaveRequest{}, database.Classify(fmt.Errorf("transition leave request: %w", err))
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM leave_requests WHERE id = $1)`, t.ID).Scan(&exists); err != nil {
		return leave.LeaveRequest{}, translate(err, leave.ErrLeaveRequestNotFound)
	}
	if exists {
		return leave.LeaveRequest{}, leave.ErrAlreadyDecided
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
}
