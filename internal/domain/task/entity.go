package task

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in progress"
	StatusCompleted  Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID           string
	StaffID      string
	EmployeeCode string
	Title        string
	Description  string
	Status       Status
	AssignedBy   *string
	CreatedAt    time.Time
	CompletedAt  *time.Time

	// Joined from staff
	EmployeeName *string
}

// Counts is a per-staff breakdown by status.
type Counts struct {
	StaffID      string
	EmployeeCode string
	EmployeeName string
	Total        int
	Completed    int
	InProgress   int
	Pending      int
}
