package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSeed_JSON(t *testing.T) {
	path := writeSeed(t, "seed.json", `{
  "employees": [
    {"id": "admin-1", "full_name": "Ada", "role": "admin"},
    {"id": "emp-1", "full_name": "Eve", "role": "employee", "is_active": false}
  ],
  "balances": [
    {"employee_id": "emp-1", "leave_type": "vacation", "year": 2024, "total_days": 12, "used_days": 2}
  ]
}`)

	seed, err := LoadSeed(path)
	require.NoError(t, err)

	store := NewStore()
	require.NoError(t, store.ApplySeed(seed))
	ctx := context.Background()

	admin, err := store.Employees().GetByID(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)

	emp, err := store.Employees().GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.False(t, emp.IsActive)

	b, err := store.LeaveBalances().Get(ctx, leave.BalanceKey{EmployeeID: "emp-1", LeaveType: leave.LeaveTypeVacation, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 12, b.TotalDays)
	assert.Equal(t, 10, b.RemainingDays())
}

func TestLoadSeed_YAML(t *testing.T) {
	path := writeSeed(t, "seed.yaml", `
employees:
  - id: emp-1
    full_name: Eve
    role: employee
balances:
  - employee_id: emp-1
    leave_type: sick
    year: 2025
    total_days: 5
`)

	seed, err := LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, seed.Employees, 1)
	require.Len(t, seed.Balances, 1)
	assert.Equal(t, "sick", seed.Balances[0].LeaveType)
	assert.Equal(t, 5, seed.Balances[0].TotalDays)
}

func TestLoadSeed_MissingFile(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestApplySeed_RejectsInvalidRecords(t *testing.T) {
	eve := SeedEmployee{ID: "emp-1", FullName: "Eve", Role: "employee"}

	tests := []struct {
		name    string
		seed    Seed
		wantErr error
	}{
		{"unknown role", Seed{Employees: []SeedEmployee{{ID: "x", Role: "owner"}}}, user.ErrInvalidRole},
		{"unknown leave type", Seed{
			Employees: []SeedEmployee{eve},
			Balances:  []SeedBalance{{EmployeeID: "emp-1", LeaveType: "sabbatical", Year: 2024, TotalDays: 5}},
		}, leave.ErrInvalidLeaveType},
		{"balance without employee", Seed{
			Balances: []SeedBalance{{EmployeeID: "ghost", LeaveType: "vacation", Year: 2024, TotalDays: 5}},
		}, employee.ErrEmployeeNotFound},
		{"overdrawn balance", Seed{
			Employees: []SeedEmployee{eve},
			Balances:  []SeedBalance{{EmployeeID: "emp-1", LeaveType: "vacation", Year: 2024, TotalDays: 5, UsedDays: 6}},
		}, nil},
		{"missing id", Seed{Employees: []SeedEmployee{{Role: "employee"}}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore()
			err := store.ApplySeed(tt.seed)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			// Nothing is inserted when any record is invalid
			_, total, err := store.Employees().List(context.Background(), employee.EmployeeFilter{})
			require.NoError(t, err)
			assert.Zero(t, total)
		})
	}
}
