package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/leave-ledger/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-ledger/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	CreateRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)

	GetMyBalances(w http.ResponseWriter, r *http.Request)
	GetEmployeeBalances(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
	}
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := l.leaveService.CreateLeaveRequest(r.Context(), middleware.CapabilityFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", created)
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	query, err := parseListRequestsQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.ListMyLeaveRequests(r.Context(), middleware.CapabilityFromContext(r.Context()), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	query, err := parseListRequestsQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.ListLeaveRequests(r.Context(), middleware.CapabilityFromContext(r.Context()), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func parseListRequestsQuery(r *http.Request) (leave.ListLeaveRequestsQuery, error) {
	params := newQueryParams(r)
	query := leave.ListLeaveRequestsQuery{
		Status: params.String("status"),
		Limit:  params.Int("limit"),
		Offset: params.Int("offset"),
	}
	return query, params.Err()
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	result, err := l.leaveService.GetLeaveRequest(r.Context(), middleware.CapabilityFromContext(r.Context()), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	result, err := l.leaveService.Decide(r.Context(), middleware.CapabilityFromContext(r.Context()), leave.DecideRequest{
		RequestID: chi.URLParam(r, "id"),
		Decision:  leave.DecisionApprove,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved successfully", result)
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.RejectRequestRequest
	// An empty body is a rejection without reason and fails in the workflow.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("RejectRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	reason := req.RejectionReason
	result, err := l.leaveService.Decide(r.Context(), middleware.CapabilityFromContext(r.Context()), leave.DecideRequest{
		RequestID:       chi.URLParam(r, "id"),
		Decision:        leave.DecisionReject,
		RejectionReason: &reason,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected successfully", result)
}

// GetMyBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	l.listBalances(w, r, "")
}

// GetEmployeeBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetEmployeeBalances(w http.ResponseWriter, r *http.Request) {
	l.listBalances(w, r, chi.URLParam(r, "employeeID"))
}

func (l *LeaveHandlerImpl) listBalances(w http.ResponseWriter, r *http.Request, employeeID string) {
	params := newQueryParams(r)
	query := leave.ListBalancesQuery{
		Year:      params.Int("year"),
		LeaveType: params.String("type"),
	}
	if err := params.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	balances, err := l.leaveService.ListBalances(r.Context(), middleware.CapabilityFromContext(r.Context()), employeeID, query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}
