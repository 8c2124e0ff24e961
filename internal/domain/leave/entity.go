package leave

import (
	"time"
)

// LeaveType is the category a request is charged against
type LeaveType string

const (
	LeaveTypeVacation  LeaveType = "vacation"
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypePersonal  LeaveType = "personal"
	LeaveTypeEmergency LeaveType = "emergency"
	LeaveTypeMaternity LeaveType = "maternity"
	LeaveTypePaternity LeaveType = "paternity"
)

// AllLeaveTypes returns every supported leave type
func AllLeaveTypes() []LeaveType {
	return []LeaveType{
		LeaveTypeVacation,
		LeaveTypeSick,
		LeaveTypePersonal,
		LeaveTypeEmergency,
		LeaveTypeMaternity,
		LeaveTypePaternity,
	}
}

func (t LeaveType) IsValid() bool {
	for _, known := range AllLeaveTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseLeaveType converts raw input into a LeaveType
func ParseLeaveType(s string) (LeaveType, error) {
	t := LeaveType(s)
	if !t.IsValid() {
		return "", ErrInvalidLeaveType
	}
	return t, nil
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

func (s LeaveRequestStatus) IsValid() bool {
	switch s {
	case LeaveRequestStatusPending, LeaveRequestStatusApproved, LeaveRequestStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is legal from s.
func (s LeaveRequestStatus) IsTerminal() bool {
	return s == LeaveRequestStatusApproved || s == LeaveRequestStatusRejected
}

// Decision is an administrator's verdict on a pending request
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject
}

// TargetStatus is the status a request moves to under d.
func (d Decision) TargetStatus() LeaveRequestStatus {
	if d == DecisionApprove {
		return LeaveRequestStatusApproved
	}
	return LeaveRequestStatusRejected
}

// LeaveRequest entity
type LeaveRequest struct {
	ID         string
	EmployeeID string
	LeaveType  LeaveType

	StartDate time.Time
	EndDate   time.Time
	TotalDays int // fixed at creation

	Reason string

	Status          LeaveRequestStatus
	RejectionReason *string // set iff rejected
	ApprovedBy      *string // set iff approved

	CreatedAt time.Time
	DecidedAt *time.Time // set iff not pending
}

// Year is the ledger year the request is charged to: the calendar year of
// its start date, even when the range crosses into the next year.
func (r LeaveRequest) Year() int {
	return r.StartDate.Year()
}

// BalanceKey returns the ledger row an approval of r debits
func (r LeaveRequest) BalanceKey() BalanceKey {
	return BalanceKey{
		EmployeeID: r.EmployeeID,
		LeaveType:  r.LeaveType,
		Year:       r.Year(),
	}
}

// BalanceKey identifies one ledger row
type BalanceKey struct {
	EmployeeID string
	LeaveType  LeaveType
	Year       int
}

// LeaveBalance is one (employee, type, year) ledger row
type LeaveBalance struct {
	EmployeeID string
	LeaveType  LeaveType
	Year       int

	TotalDays int
	UsedDays  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemainingDays is derived, never stored
func (b LeaveBalance) RemainingDays() int {
	return b.TotalDays - b.UsedDays
}

func (b LeaveBalance) Key() BalanceKey {
	return BalanceKey{EmployeeID: b.EmployeeID, LeaveType: b.LeaveType, Year: b.Year}
}

type EntryKind string

const (
	EntryKindDebit  EntryKind = "debit"
	EntryKindCredit EntryKind = "credit"
)

// BalanceEntry is one append-only journal line recorded with every debit or credit
type BalanceEntry struct {
	ID string
	BalanceKey
	Kind      EntryKind
	Days      int
	RequestID string
	CreatedAt time.Time
}

const dateLayout = "2006-01-02"

// NormalizeDate drops the clock and zone so day arithmetic is exact.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

const secondsPerDay = 24 * 60 * 60

// CountDays returns the inclusive calendar-day length of [start, end].
func CountDays(start, end time.Time) (int, error) {
	start, end = NormalizeDate(start), NormalizeDate(end)
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	// Whole seconds between UTC midnights; a time.Duration overflows past ~292 years.
	return int((end.Unix()-start.Unix())/secondsPerDay) + 1, nil
}
