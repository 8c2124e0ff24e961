package http

import (
	"net/http"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/leave-ledger/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-ledger/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	GetMe(w http.ResponseWriter, r *http.Request)
	ToggleActivation(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// ListEmployees implements EmployeeHandler.
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	params := newQueryParams(r)
	query := employee.ListEmployeesQuery{
		Role:     params.String("role"),
		IsActive: params.Bool("is_active"),
		Limit:    params.Int("limit"),
		Offset:   params.Int("offset"),
	}
	if err := params.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.ListEmployees(r.Context(), middleware.CapabilityFromContext(r.Context()), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.employeeService.GetEmployee(r.Context(), middleware.CapabilityFromContext(r.Context()), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMe implements EmployeeHandler.
func (h *employeeHandlerImpl) GetMe(w http.ResponseWriter, r *http.Request) {
	capability := middleware.CapabilityFromContext(r.Context())

	result, err := h.employeeService.GetEmployee(r.Context(), capability, capability.CallerID())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ToggleActivation implements EmployeeHandler.
func (h *employeeHandlerImpl) ToggleActivation(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.ToggleActivation(r.Context(), middleware.CapabilityFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Employee deactivated successfully"
	if result.IsActive {
		message = "Employee activated successfully"
	}
	response.SuccessWithMessage(w, message, result)
}
