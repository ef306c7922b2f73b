package analytics

import (
	"context"
)

// AttendanceAggregate covers days with both punches in a period.
type AttendanceAggregate struct {
	PresentDays  int
	TotalMinutes float64
}

type TaskAggregate struct {
	Total     int
	Completed int
}

type Employee struct {
	ID           string
	EmployeeCode string
	Name         string
}

// AnalyticsRepository returns maps keyed by staff id, one query each.
type AnalyticsRepository interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
	AttendanceByStaff(ctx context.Context, from, to string) (map[string]AttendanceAggregate, error)
	// LeaveCountsByStaff counts requests in any status.
	LeaveCountsByStaff(ctx context.Context) (map[string]int, error)
	TaskCountsByStaff(ctx context.Context) (map[string]TaskAggregate, error)
}
