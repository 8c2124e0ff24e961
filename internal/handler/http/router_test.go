package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/jwt"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/sse"
	"github.com/cmlabs-hris/leave-ledger/internal/repository/memory"
	authService "github.com/cmlabs-hris/leave-ledger/internal/service/auth"
	employeeService "github.com/cmlabs-hris/leave-ledger/internal/service/employee"
	leaveService "github.com/cmlabs-hris/leave-ledger/internal/service/leave"
	notificationService "github.com/cmlabs-hris/leave-ledger/internal/service/notification"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testServer struct {
	router *chi.Mux
	store  *memory.Store
	jwt    jwt.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	store.PutEmployee(employee.Employee{ID: "admin-1", FullName: "Ada", Role: user.RoleAdmin, IsActive: true})
	store.PutEmployee(employee.Employee{ID: "emp-1", FullName: "Eve", Role: user.RoleEmployee, IsActive: true})
	store.PutEmployee(employee.Employee{ID: "emp-2", FullName: "Ivan", Role: user.RoleEmployee, IsActive: false})
	store.PutBalance(leave.LeaveBalance{EmployeeID: "emp-1", LeaveType: leave.LeaveTypeVacation, Year: 2024, TotalDays: 5})

	hub := sse.NewHub(4)
	notifSvc := notificationService.NewNotificationService(store.Notifications(), store.Employees(), store.LeaveRequests(), hub, notificationService.Config{
		FlushInterval: 10 * time.Millisecond,
	})
	t.Cleanup(func() {
		notifSvc.Stop()
		hub.Close()
	})

	registry := leaveService.NewRegistry(store.LeaveRequests())
	ledger := leaveService.NewLedger(store.LeaveBalances())
	workflow := leaveService.NewWorkflow(store.Transactions(), registry, ledger, notifSvc)
	leaveSvc := leaveService.NewLeaveService(registry, ledger, workflow, notifSvc, time.Second)
	employeeSvc := employeeService.NewEmployeeService(store.Employees())
	jwtSvc := jwt.NewJWTService(handlerTestSecret, time.Hour)

	router := NewRouter(RouterConfig{
		AllowedOrigins:      []string{"http://localhost:3000"},
		JWTService:          jwtSvc,
		Guard:               authService.NewGuard(),
		EmployeeService:     employeeSvc,
		LeaveHandler:        NewLeaveHandler(leaveSvc),
		EmployeeHandler:     NewEmployeeHandler(employeeSvc),
		NotificationHandler: NewNotificationHandler(notifSvc),
	})

	return &testServer{router: router, store: store, jwt: jwtSvc}
}

func (s *testServer) token(t *testing.T, employeeID string) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(employeeID)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, employeeID string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if employeeID != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(t, employeeID))
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (s *testServer) submit(t *testing.T, employeeID string, start, end string) leave.LeaveRequestResponse {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/v1/leave/requests", employeeID, map[string]string{
		"leave_type": "vacation",
		"start_date": start,
		"end_date":   end,
		"reason":     "family trip",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created leave.LeaveRequestResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	return created
}

func TestRouter_Heartbeat(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AuthenticationFailures(t *testing.T) {
	s := newTestServer(t)

	t.Run("missing token", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, "/api/v1/leave/requests/my", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})

	t.Run("unknown principal", func(t *testing.T) {
		rec, _ := s.do(t, http.MethodGet, "/api/v1/leave/requests/my", "ghost", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/leave/requests/my", nil)
		req.Header.Set("Authorization", "Bearer "+s.token(t, "emp-1")+"x")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRouter_SubmitAndApprove(t *testing.T) {
	s := newTestServer(t)

	created := s.submit(t, "emp-1", "2024-03-04", "2024-03-06")
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, 3, created.TotalDays)
	assert.Equal(t, "emp-1", created.EmployeeID)

	rec, env := s.do(t, http.MethodPost, "/api/v1/leave/requests/"+created.ID+"/approve", "admin-1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var approved leave.LeaveRequestResponse
	require.NoError(t, json.Unmarshal(env.Data, &approved))
	assert.Equal(t, "approved", approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "admin-1", *approved.ApprovedBy)

	rec, env = s.do(t, http.MethodGet, "/api/v1/leave/balances/my?year=2024", "emp-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var balances []leave.LeaveBalanceResponse
	require.NoError(t, json.Unmarshal(env.Data, &balances))
	require.Len(t, balances, 1)
	assert.Equal(t, 3, balances[0].UsedDays)
	assert.Equal(t, 2, balances[0].RemainingDays)

	rec, env = s.do(t, http.MethodPost, "/api/v1/leave/requests/"+created.ID+"/approve", "admin-1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestRouter_ApproveInsufficientBalance(t *testing.T) {
	s := newTestServer(t)

	created := s.submit(t, "emp-1", "2024-03-01", "2024-03-10")

	rec, env := s.do(t, http.MethodPost, "/api/v1/leave/requests/"+created.ID+"/approve", "admin-1", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INSUFFICIENT_BALANCE", env.Error.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/leave/requests/"+created.ID, "emp-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var current leave.LeaveRequestResponse
	require.NoError(t, json.Unmarshal(env.Data, &current))
	assert.Equal(t, "pending", current.Status)
}

func TestRouter_RejectRequiresReason(t *testing.T) {
	s := newTestServer(t)

	created := s.submit(t, "emp-1", "2024-03-04", "2024-03-04")

	rec, env := s.do(t, http.MethodPost, "/api/v1/leave/requests/"+created.ID+"/reject", "admin-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_REASON", env.Error.Code)

	rec, env = s.do(t, http.MethodPost, "/api/v1/leave/requests/"+created.ID+"/reject", "admin-1",
		map[string]string{"rejection_reason": "quarter close"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rejected leave.LeaveRequestResponse
	require.NoError(t, json.Unmarshal(env.Data, &rejected))
	assert.Equal(t, "rejected", rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "quarter close", *rejected.RejectionReason)
}

func TestRouter_SubmitValidation(t *testing.T) {
	s := newTestServer(t)

	t.Run("end before start", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/v1/leave/requests", "emp-1", map[string]string{
			"leave_type": "vacation",
			"start_date": "2024-03-10",
			"end_date":   "2024-03-01",
			"reason":     "trip",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_RANGE", env.Error.Code)
	})

	t.Run("blank reason", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/v1/leave/requests", "emp-1", map[string]string{
			"leave_type": "vacation",
			"start_date": "2024-03-01",
			"end_date":   "2024-03-01",
			"reason":     "   ",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_REASON", env.Error.Code)
	})

	t.Run("malformed fields", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/v1/leave/requests", "emp-1", map[string]string{
			"leave_type": "sabbatical",
			"start_date": "03/01/2024",
			"end_date":   "2024-03-01",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.Contains(t, env.Error.Details, "leave_type")
		assert.Contains(t, env.Error.Details, "start_date")
	})

	t.Run("bad limit", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, "/api/v1/leave/requests/my?limit=abc", "emp-1", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "must be an integer", env.Error.Details["limit"])
	})
}

func TestRouter_Authorization(t *testing.T) {
	s := newTestServer(t)

	t.Run("employee cannot list all", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, "/api/v1/leave/requests", "emp-1", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "insufficient_role", env.Error.Details["reason"])
	})

	t.Run("employee cannot decide", func(t *testing.T) {
		created := s.submit(t, "emp-1", "2024-03-04", "2024-03-04")
		rec, env := s.do(t, http.MethodPost, "/api/v1/leave/requests/"+created.ID+"/approve", "emp-1", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "insufficient_role", env.Error.Details["reason"])
	})

	t.Run("inactive employee cannot submit", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/v1/leave/requests", "emp-2", map[string]string{
			"leave_type": "vacation",
			"start_date": "2024-03-04",
			"end_date":   "2024-03-04",
			"reason":     "trip",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "inactive", env.Error.Details["reason"])
	})

	t.Run("employee cannot read another employee's request", func(t *testing.T) {
		s.store.PutEmployee(employee.Employee{ID: "emp-3", FullName: "Oto", Role: user.RoleEmployee, IsActive: true})
		created := s.submit(t, "emp-1", "2024-03-05", "2024-03-05")

		rec, env := s.do(t, http.MethodGet, "/api/v1/leave/requests/"+created.ID, "emp-3", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "not_owner", env.Error.Details["reason"])
	})

	t.Run("admin reads any balance", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, "/api/v1/leave/balances/emp-1?year=2024&type=vacation", "admin-1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var balances []leave.LeaveBalanceResponse
		require.NoError(t, json.Unmarshal(env.Data, &balances))
		assert.Len(t, balances, 1)
	})
}

func TestRouter_ToggleActivation(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPatch, "/api/v1/employees/emp-2/activation", "admin-1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated employee.EmployeeResponse
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.True(t, updated.IsActive)

	rec, _ = s.do(t, http.MethodPatch, "/api/v1/employees/missing/activation", "admin-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodPatch, "/api/v1/employees/emp-1/activation", "emp-1", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_NotificationInbox(t *testing.T) {
	s := newTestServer(t)

	created := s.submit(t, "emp-1", "2024-03-04", "2024-03-04")

	var inbox struct {
		Notifications []struct {
			ID        string `json:"id"`
			RequestID string `json:"request_id"`
		} `json:"notifications"`
		UnreadCount int64 `json:"unread_count"`
	}
	require.Eventually(t, func() bool {
		rec, env := s.do(t, http.MethodGet, "/api/v1/notifications?unread=true", "admin-1", nil)
		if rec.Code != http.StatusOK {
			return false
		}
		if err := json.Unmarshal(env.Data, &inbox); err != nil {
			return false
		}
		return len(inbox.Notifications) == 1
	}, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, created.ID, inbox.Notifications[0].RequestID)

	rec, env := s.do(t, http.MethodPost, "/api/v1/notifications/read", "admin-1",
		map[string][]string{"notification_ids": {inbox.Notifications[0].ID}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var marked struct {
		Updated int64 `json:"updated"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &marked))
	assert.Equal(t, int64(1), marked.Updated)
}

func TestRouter_MalformedRequestIDIsNotFound(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/leave/requests/not-a-uuid", "admin-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/leave/requests/not-a-uuid/reject", "admin-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
