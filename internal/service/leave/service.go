package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/auth"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/notification"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
)

type LeaveServiceImpl struct {
	registry *Registry
	ledger   *Ledger
	workflow *Workflow
	sink     notification.Sink
	// timeout bounds each operation against the store
	timeout time.Duration
	now     func() time.Time
}

func NewLeaveService(registry *Registry, ledger *Ledger, workflow *Workflow, sink notification.Sink, timeout time.Duration) leave.LeaveService {
	return &LeaveServiceImpl{
		registry: registry,
		ledger:   ledger,
		workflow: workflow,
		sink:     sink,
		timeout:  timeout,
		now:      time.Now,
	}
}

func (s *LeaveServiceImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// requireView checks that capability may read records of employeeID.
func requireView(capability auth.Capability, employeeID string) error {
	if !capability.Allows(user.ActionListAll) && !capability.Allows(user.ActionListOwn) {
		return auth.Denied(user.ActionListOwn, auth.ReasonInsufficientRole)
	}
	if !capability.CanAccess(employeeID) {
		return auth.Denied(capability.Action(), auth.ReasonNotOwner)
	}
	return nil
}

// CreateLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, capability auth.Capability, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := capability.Require(user.ActionSubmit); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	leaveType, err := leave.ParseLeaveType(req.LeaveType)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	startDate, endDate, err := req.Dates()
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	created, err := s.registry.Create(ctx, capability.Target(), leaveType, startDate, endDate, req.Reason)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.sink.Emit(notification.Event{
		Kind:        notification.EventCreated,
		RecipientID: created.EmployeeID,
		ActorID:     capability.CallerID(),
		RequestID:   created.ID,
		At:          created.CreatedAt,
	})

	return leave.ToLeaveRequestResponse(created), nil
}

// GetLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, capability auth.Capability, requestID string) (leave.LeaveRequestResponse, error) {
	if err := requireView(capability, capability.Target()); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	request, err := s.registry.Get(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !capability.CanAccess(request.EmployeeID) {
		return leave.LeaveRequestResponse{}, auth.Denied(capability.Action(), auth.ReasonNotOwner)
	}

	return leave.ToLeaveRequestResponse(request), nil
}

// ListMyLeaveRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMyLeaveRequests(ctx context.Context, capability auth.Capability, query leave.ListLeaveRequestsQuery) (leave.ListLeaveRequestResponse, error) {
	if err := capability.Require(user.ActionListOwn); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	if err := query.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	filter := clampPage(query.ToFilter())
	requests, total, err := s.registry.ListByEmployee(ctx, capability.Target(), filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	return leave.ToListLeaveRequestResponse(requests, total, filter), nil
}

// ListLeaveRequests implements leave.LeaveService. A capability scoped to one
// employee lists only that employee's requests.
func (s *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, capability auth.Capability, query leave.ListLeaveRequestsQuery) (leave.ListLeaveRequestResponse, error) {
	if err := capability.Require(user.ActionListAll); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	if err := query.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	filter := clampPage(query.ToFilter())

	var (
		requests []leave.LeaveRequest
		total    int64
		err      error
	)
	if target := capability.Target(); target != "" {
		requests, total, err = s.registry.ListByEmployee(ctx, target, filter)
	} else {
		requests, total, err = s.registry.ListAll(ctx, filter)
	}
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	return leave.ToListLeaveRequestResponse(requests, total, filter), nil
}

// Decide implements leave.LeaveService.
func (s *LeaveServiceImpl) Decide(ctx context.Context, capability auth.Capability, req leave.DecideRequest) (leave.LeaveRequestResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	decided, err := s.workflow.Decide(ctx, capability, req.RequestID, req.Decision, req.RejectionReason)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.ToLeaveRequestResponse(decided), nil
}

// GetBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, capability auth.Capability, key leave.BalanceKey) (leave.LeaveBalanceResponse, error) {
	if err := requireView(capability, key.EmployeeID); err != nil {
		return leave.LeaveBalanceResponse{}, err
	}
	if !key.LeaveType.IsValid() {
		return leave.LeaveBalanceResponse{}, leave.ErrInvalidLeaveType
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	balance, err := s.ledger.GetBalance(ctx, key)
	if err != nil {
		return leave.LeaveBalanceResponse{}, err
	}
	return leave.ToLeaveBalanceResponse(balance), nil
}

// ListBalances implements leave.LeaveService. Year defaults to the current year.
func (s *LeaveServiceImpl) ListBalances(ctx context.Context, capability auth.Capability, employeeID string, query leave.ListBalancesQuery) ([]leave.LeaveBalanceResponse, error) {
	if employeeID == "" {
		employeeID = capability.Target()
	}
	if err := requireView(capability, employeeID); err != nil {
		return nil, err
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	year := query.Year
	if year == 0 {
		year = s.now().Year()
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	balances, err := s.ledger.ListBalances(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}

	result := make([]leave.LeaveBalanceResponse, 0, len(balances))
	for _, b := range balances {
		if query.LeaveType != "" && string(b.LeaveType) != query.LeaveType {
			continue
		}
		result = append(result, leave.ToLeaveBalanceResponse(b))
	}
	return result, nil
}
