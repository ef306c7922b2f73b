package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveColumns = `l.id, l.staff_id, l.employee_code, l.start_date, l.end_date, l.reason, l.status,
	l.notification, l.decided_by, l.decided_at, l.created_at`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeave(row pgx.Row, extra ...interface{}) (leave.LeaveRequest, error) {
	var l leave.LeaveRequest
	dest := []interface{}{
		&l.ID,
		&l.StaffID,
		&l.EmployeeCode,
		&l.StartDate,
		&l.EndDate,
		&l.Reason,
		&l.Status,
		&l.Notification,
		&l.DecidedBy,
		&l.DecidedAt,
		&l.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return l, nil
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		var name *string
		l, err := scanLeave(rows, &name)
		if err != nil {
			return nil, err
		}
		l.EmployeeName = name
		requests = append(requests, l)
	}
	return requests, rows.Err()
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leaves AS l (staff_id, employee_code, start_date, end_date, reason, status, notification)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + leaveColumns

	created, err := scanLeave(q.QueryRow(ctx, query,
		request.StaffID,
		request.EmployeeCode,
		request.StartDate,
		request.EndDate,
		request.Reason,
		request.Status,
		request.Notification,
	))
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	return scanLeave(q.QueryRow(ctx, `SELECT `+leaveColumns+` FROM leaves l WHERE l.id = $1`, id))
}

// CountByStartBetween implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) CountByStartBetween(ctx context.Context, staffID string, from, to time.Time, statuses []leave.Status) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM leaves
		WHERE staff_id = $1
		  AND start_date BETWEEN $2::date AND $3::date
		  AND status = ANY($4)
	`

	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	var total int
	err := q.QueryRow(ctx, query, staffID, from.Format(leave.DateLayout), to.Format(leave.DateLayout), names).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count leave requests: %w", err)
	}
	return total, nil
}

// ListByStaff implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByStaff(ctx context.Context, staffID string) ([]leave.LeaveRequest, error) {
	query := `
		SELECT ` + leaveColumns + `, s.name
		FROM leaves l
		LEFT JOIN staff s ON s.id = l.staff_id
		WHERE l.staff_id = $1
		ORDER BY l.created_at DESC
	`
	return r.list(ctx, query, staffID)
}

// ListByStaffForExport implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByStaffForExport(ctx context.Context, staffID string) ([]leave.LeaveRequest, error) {
	query := `
		SELECT ` + leaveColumns + `, s.name
		FROM leaves l
		LEFT JOIN staff s ON s.id = l.staff_id
		WHERE l.staff_id = $1
		ORDER BY l.start_date DESC, l.created_at DESC
	`
	return r.list(ctx, query, staffID)
}

// ListAll implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	query := `
		SELECT ` + leaveColumns + `, s.name
		FROM leaves l
		LEFT JOIN staff s ON s.id = l.staff_id
		ORDER BY l.start_date DESC, l.created_at DESC
	`
	return r.list(ctx, query)
}

// DeletePending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) DeletePending(ctx context.Context, id, staffID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM leaves
		WHERE id = $1 AND staff_id = $2 AND status = 'pending'
	`
	commandTag, err := q.Exec(ctx, query, id, staffID)
	if err != nil {
		return false, err
	}
	return commandTag.RowsAffected() == 1, nil
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, status leave.Status, decidedBy string, decidedAt time.Time) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leaves AS l
		SET status = $1, decided_by = $2, decided_at = $3, notification = TRUE
		WHERE l.id = $4 AND l.status = 'pending'
		RETURNING ` + leaveColumns

	updated, err := scanLeave(q.QueryRow(ctx, query, status, decidedBy, decidedAt, id))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, leave.ErrLeaveRequestNotFound) {
		return leave.LeaveRequest{}, err
	}

	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return leave.LeaveRequest{}, getErr
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
}

// TakeNotifications implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) TakeNotifications(ctx context.Context, staffID string) ([]leave.LeaveRequest, error) {
	query := `
		WITH l AS (
			UPDATE leaves
			SET notification = FALSE
			WHERE staff_id = $1 AND notification = TRUE
			RETURNING *
		)
		SELECT ` + leaveColumns + `, s.name
		FROM l
		LEFT JOIN staff s ON s.id = l.staff_id
		ORDER BY l.created_at DESC
	`
	// RETURNING yields the post-update row; report the flag the caller consumed.
	list, err := r.list(ctx, query, staffID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Notification = true
	}
	return list, nil
}
