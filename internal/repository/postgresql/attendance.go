package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const attendanceColumns = `a.id, a.staff_id, a.employee_code, to_char(a.date, 'YYYY-MM-DD'), a.punch_in, a.punch_out,
	a.ip_address, a.photo_path, a.created_at, a.updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanRecord(row pgx.Row, extra ...interface{}) (attendance.Record, error) {
	var rec attendance.Record
	dest := []interface{}{
		&rec.ID,
		&rec.StaffID,
		&rec.EmployeeCode,
		&rec.Date,
		&rec.PunchIn,
		&rec.PunchOut,
		&rec.IPAddress,
		&rec.PhotoPath,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, err
	}
	return rec, nil
}

// isPunchOrderViolation reports a breach of the attendance_punch_order check.
func isPunchOrderViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514" && pgErr.ConstraintName == "attendance_punch_order"
}

// GetByStaffAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByStaffAndDate(ctx context.Context, staffID string, date string) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance a
		WHERE a.staff_id = $1 AND a.date = $2::date
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, staffID, date))
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance for %s: %w", date, err)
	}
	return &rec, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance a WHERE a.id = $1`
	return scanRecord(q.QueryRow(ctx, query, id))
}

// Create implements attendance.AttendanceRepository. The insert never
// raises on the (staff_id, date) key so a losing racer inside a
// transaction can still roll back cleanly.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance AS a (staff_id, employee_code, date, punch_in, punch_out, ip_address, photo_path)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7)
		ON CONFLICT ON CONSTRAINT attendance_staff_date_key DO NOTHING
		RETURNING ` + attendanceColumns

	created, err := scanRecord(q.QueryRow(ctx, query,
		rec.StaffID,
		rec.EmployeeCode,
		rec.Date,
		rec.PunchIn,
		rec.PunchOut,
		rec.IPAddress,
		rec.PhotoPath,
	))
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrRecordNotFound):
			return attendance.Record{}, attendance.ErrRecordExists
		case isPunchOrderViolation(err):
			return attendance.Record{}, attendance.ErrPunchOrder
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// Patch implements attendance.AttendanceRepository. The row is locked
// before COALESCE folds the patch into its latest committed values, so a
// concurrent punch or correction on other fields survives.
func (a *attendanceRepository) Patch(ctx context.Context, id string, patch attendance.RecordPatch) (attendance.Record, string, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		WITH prev AS (
			SELECT id, photo_path FROM attendance WHERE id = $1 FOR UPDATE
		)
		UPDATE attendance AS a
		SET punch_in = COALESCE($2::timestamptz, a.punch_in),
			punch_out = COALESCE($3::timestamptz, a.punch_out),
			ip_address = COALESCE($4::text, a.ip_address),
			photo_path = COALESCE($5::text, a.photo_path),
			updated_at = NOW()
		FROM prev
		WHERE a.id = prev.id AND (NOT $6::bool OR a.punch_out IS NULL)
		RETURNING ` + attendanceColumns + `, prev.photo_path`

	var previous *string
	updated, err := scanRecord(q.QueryRow(ctx, query,
		id,
		patch.PunchIn,
		patch.PunchOut,
		patch.IPAddress,
		patch.PhotoPath,
		patch.OpenOnly,
	), &previous)
	if err != nil {
		if isPunchOrderViolation(err) {
			return attendance.Record{}, "", attendance.ErrPunchOrder
		}
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.Record{}, "", a.patchMiss(ctx, id)
		}
		return attendance.Record{}, "", fmt.Errorf("failed to update attendance: %w", err)
	}

	replaced := ""
	if previous != nil && patch.PhotoPath != nil && *previous != *patch.PhotoPath {
		replaced = *previous
	}
	return updated, replaced, nil
}

// patchMiss tells a missing record from one already closed by a punch-out.
func (a *attendanceRepository) patchMiss(ctx context.Context, id string) error {
	if _, err := a.GetByID(ctx, id); err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return err
		}
		return fmt.Errorf("failed to get attendance: %w", err)
	}
	return attendance.ErrAlreadyPunchedOut
}

func (a *attendanceRepository) list(ctx context.Context, query string, args ...interface{}) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := []attendance.Record{}
	for rows.Next() {
		var name *string
		rec, err := scanRecord(rows, &name)
		if err != nil {
			return nil, err
		}
		rec.EmployeeName = name
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListAll implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListAll(ctx context.Context) ([]attendance.Record, error) {
	query := `
		SELECT ` + attendanceColumns + `, s.name
		FROM attendance a
		LEFT JOIN staff s ON s.id = a.staff_id
		ORDER BY a.date DESC, a.created_at DESC
	`
	return a.list(ctx, query)
}

// ListByStaffBetween implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByStaffBetween(ctx context.Context, staffID string, from, to string) ([]attendance.Record, error) {
	query := `
		SELECT ` + attendanceColumns + `, NULL::text
		FROM attendance a
		WHERE a.staff_id = $1 AND a.date BETWEEN $2::date AND $3::date
		ORDER BY a.date ASC
	`
	return a.list(ctx, query, staffID, from, to)
}
