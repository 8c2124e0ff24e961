// Package memory is an in-process implementation of every repository port.
// Each method is atomic under one mutex. Transactions are serialized but
// cannot roll back.
package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/notification"
)

type Store struct {
	mu sync.Mutex
	// txMu serializes transactions and is always taken before mu.
	txMu sync.Mutex

	employees     map[string]employee.Employee
	requests      map[string]leave.LeaveRequest
	balances      map[leave.BalanceKey]leave.LeaveBalance
	entries       []leave.BalanceEntry
	notifications []notification.Notification
}

func NewStore() *Store {
	return &Store{
		employees: make(map[string]employee.Employee),
		requests:  make(map[string]leave.LeaveRequest),
		balances:  make(map[leave.BalanceKey]leave.LeaveBalance),
	}
}

func (s *Store) Employees() employee.EmployeeRepository {
	return &employeeRepository{s}
}

func (s *Store) LeaveRequests() leave.LeaveRequestRepository {
	return &leaveRequestRepository{s}
}

func (s *Store) LeaveBalances() leave.LeaveBalanceRepository {
	return &leaveBalanceRepository{s}
}

func (s *Store) Notifications() notification.Repository {
	return &notificationRepository{s}
}

func (s *Store) Transactions() leave.TransactionManager {
	return &transactionManager{s}
}

type transactionManager struct {
	*Store
}

// WithinTransaction runs fn while holding the store's transaction lock, so
// transactions are isolated from each other. Writes made before fn fails are
// kept. Transactions must not nest.
func (m *transactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx)
}

func (m *transactionManager) Atomic() bool {
	return false
}

// PutEmployee inserts or replaces an employee record.
func (s *Store) PutEmployee(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

// PutBalance provisions an allocation row. Allocation is owned by an
// external process; this exists for seeding.
func (s *Store) PutBalance(b leave.LeaveBalance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[b.Key()] = b
}

// Entries returns a copy of the balance journal.
func (s *Store) Entries() []leave.BalanceEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]leave.BalanceEntry(nil), s.entries...)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
