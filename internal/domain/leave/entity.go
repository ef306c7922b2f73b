package leave

import "time"

const (
	// YearlyLimit caps pending and approved requests starting in one calendar year.
	YearlyLimit = 20
	// MonthlyDisplayLimit is reported to the employee but never enforced.
	MonthlyDisplayLimit = 2
)

const DateLayout = "2006-01-02"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// CountedStatuses are the statuses that consume quota.
var CountedStatuses = []Status{StatusPending, StatusApproved}

type LeaveRequest struct {
	ID           string
	StaffID      string
	EmployeeCode string
	StartDate    time.Time
	EndDate      time.Time
	Reason       string
	Status       Status
	// Notification marks an entry the employee has not yet seen.
	Notification bool
	DecidedBy    *string
	DecidedAt    *time.Time
	CreatedAt    time.Time

	// Joined from staff
	EmployeeName *string
}

// YearBounds returns the first and last day of t's calendar year in t's location.
func YearBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(1, 0, -1)
}

// MonthBounds returns the first and last day of t's calendar month.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, -1)
}
