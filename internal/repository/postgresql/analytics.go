package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/analytics"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
)

type analyticsRepositoryImpl struct {
	db *database.DB
}

func NewAnalyticsRepository(db *database.DB) analytics.AnalyticsRepository {
	return &analyticsRepositoryImpl{db: db}
}

// ListEmployees returns employee-role staff ordered by name.
func (r *analyticsRepositoryImpl) ListEmployees(ctx context.Context) ([]analytics.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, employee_code, name FROM staff WHERE role = 'employee' ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []analytics.Employee{}
	for rows.Next() {
		var e analytics.Employee
		if err := rows.Scan(&e.ID, &e.EmployeeCode, &e.Name); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// AttendanceByStaff counts completed days and their minutes in [from, to] in a single query.
func (r *analyticsRepositoryImpl) AttendanceByStaff(ctx context.Context, from, to string) (map[string]analytics.AttendanceAggregate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			staff_id,
			COUNT(*) as present_days,
			COALESCE(SUM(EXTRACT(EPOCH FROM (punch_out - punch_in)) / 60), 0)::float8 as total_minutes
		FROM attendance
		WHERE date BETWEEN $1::date AND $2::date
		  AND punch_in IS NOT NULL AND punch_out IS NOT NULL
		GROUP BY staff_id
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attendance: %w", err)
	}
	defer rows.Close()

	out := map[string]analytics.AttendanceAggregate{}
	for rows.Next() {
		var staffID string
		var agg analytics.AttendanceAggregate
		if err := rows.Scan(&staffID, &agg.PresentDays, &agg.TotalMinutes); err != nil {
			return nil, err
		}
		out[staffID] = agg
	}
	return out, rows.Err()
}

// LeaveCountsByStaff counts requests in any status.
func (r *analyticsRepositoryImpl) LeaveCountsByStaff(ctx context.Context) (map[string]int, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT staff_id, COUNT(*) FROM leaves GROUP BY staff_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to count leaves: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var staffID string
		var n int
		if err := rows.Scan(&staffID, &n); err != nil {
			return nil, err
		}
		out[staffID] = n
	}
	return out, rows.Err()
}

// TaskCountsByStaff returns total and completed per staff member.
func (r *analyticsRepositoryImpl) TaskCountsByStaff(ctx context.Context) (map[string]analytics.TaskAggregate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT staff_id, COUNT(*), COUNT(*) FILTER (WHERE status = 'completed')
		FROM tasks
		GROUP BY staff_id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	defer rows.Close()

	out := map[string]analytics.TaskAggregate{}
	for rows.Next() {
		var staffID string
		var agg analytics.TaskAggregate
		if err := rows.Scan(&staffID, &agg.Total, &agg.Completed); err != nil {
			return nil, err
		}
		out[staffID] = agg
	}
	return out, rows.Err()
}
