package memory

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
	"github.com/spf13/viper"
)

// Seed is the fixture format accepted by STORE_SEED_FILE
type Seed struct {
	Employees []SeedEmployee `mapstructure:"employees"`
	Balances  []SeedBalance  `mapstructure:"balances"`
}

type SeedEmployee struct {
	ID       string `mapstructure:"id"`
	FullName string `mapstructure:"full_name"`
	Role     string `mapstructure:"role"`
	// IsActive defaults to true when omitted
	IsActive *bool `mapstructure:"is_active"`
}

type SeedBalance struct {
	EmployeeID string `mapstructure:"employee_id"`
	LeaveType  string `mapstructure:"leave_type"`
	Year       int    `mapstructure:"year"`
	TotalDays  int    `mapstructure:"total_days"`
	UsedDays   int    `mapstructure:"used_days"`
}

// LoadSeed reads a JSON or YAML fixture; the format follows the file extension.
func LoadSeed(path string) (Seed, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}

	var seed Seed
	if err := v.Unmarshal(&seed); err != nil {
		return Seed{}, fmt.Errorf("decode seed file: %w", err)
	}
	return seed, nil
}

// ApplySeed validates every record before inserting any of them.
func (s *Store) ApplySeed(seed Seed) error {
	now := time.Now().UTC()
	known := make(map[string]bool, len(seed.Employees))

	employees := make([]employee.Employee, 0, len(seed.Employees))
	for i, e := range seed.Employees {
		role := user.Role(e.Role)
		if e.ID == "" {
			return fmt.Errorf("seed employee %d: id is required", i)
		}
		if !role.IsValid() {
			return fmt.Errorf("seed employee %s: %w", e.ID, user.ErrInvalidRole)
		}
		active := e.IsActive == nil || *e.IsActive
		employees = append(employees, employee.Employee{
			ID:        e.ID,
			FullName:  e.FullName,
			Role:      role,
			IsActive:  active,
			CreatedAt: now,
			UpdatedAt: now,
		})
		known[e.ID] = true
	}

	balances := make([]leave.LeaveBalance, 0, len(seed.Balances))
	for _, b := range seed.Balances {
		leaveType, err := leave.ParseLeaveType(b.LeaveType)
		if err != nil {
			return fmt.Errorf("seed balance of %s: %w", b.EmployeeID, err)
		}
		if !known[b.EmployeeID] {
			return fmt.Errorf("seed balance of %s: %w", b.EmployeeID, employee.ErrEmployeeNotFound)
		}
		if b.Year <= 0 || b.TotalDays < 0 || b.UsedDays < 0 || b.UsedDays > b.TotalDays {
			return fmt.Errorf("seed balance of %s: need year > 0 and 0 <= used_days <= total_days", b.EmployeeID)
		}
		balances = append(balances, leave.LeaveBalance{
			EmployeeID: b.EmployeeID,
			LeaveType:  leaveType,
			Year:       b.Year,
			TotalDays:  b.TotalDays,
			UsedDays:   b.UsedDays,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	for _, e := range employees {
		s.PutEmployee(e)
	}
	for _, b := range balances {
		s.PutBalance(b)
	}
	return nil
}
