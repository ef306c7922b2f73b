package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
	"github.com/jackc/pgx/v5"
)

const staffColumns = `id, employee_code, name, email, phone, password_hash, role, position, leave_quota, created_at, updated_at`

type staffRepositoryImpl struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) staff.StaffRepository {
	return &staffRepositoryImpl{db: db}
}

func scanStaff(row pgx.Row) (staff.Staff, error) {
	var s staff.Staff
	err := row.Scan(
		&s.ID,
		&s.EmployeeCode,
		&s.Name,
		&s.Email,
		&s.Phone,
		&s.PasswordHash,
		&s.Role,
		&s.Position,
		&s.LeaveQuota,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, err
	}
	return s, nil
}

// Create implements staff.StaffRepository.
func (r *staffRepositoryImpl) Create(ctx context.Context, newStaff staff.Staff) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO staff (employee_code, name, email, phone, password_hash, role, position, leave_quota)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + staffColumns

	created, err := scanStaff(q.QueryRow(ctx, query,
		newStaff.EmployeeCode,
		newStaff.Name,
		newStaff.Email,
		newStaff.Phone,
		newStaff.PasswordHash,
		newStaff.Role,
		newStaff.Position,
		newStaff.LeaveQuota,
	))
	if err != nil {
		switch {
		case isUniqueViolation(err, "staff_employee_code_key"):
			return staff.Staff{}, staff.ErrEmployeeCodeExists
		case isUniqueViolation(err, "staff_email_key"):
			return staff.Staff{}, staff.ErrEmailExists
		}
		return staff.Staff{}, fmt.Errorf("failed to create staff: %w", err)
	}
	return created, nil
}

// GetByID implements staff.StaffRepository.
func (r *staffRepositoryImpl) GetByID(ctx context.Context, id string) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)
	return scanStaff(q.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
}

// GetByEmployeeCode implements staff.StaffRepository.
func (r *staffRepositoryImpl) GetByEmployeeCode(ctx context.Context, code string) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)
	return scanStaff(q.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE employee_code = $1`, code))
}

// GetByEmail implements staff.StaffRepository.
func (r *staffRepositoryImpl) GetByEmail(ctx context.Context, email string) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)
	return scanStaff(q.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE LOWER(email) = LOWER($1)`, email))
}

// List implements staff.StaffRepository.
func (r *staffRepositoryImpl) List(ctx context.Context, role *identity.Role) ([]staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + staffColumns + `
		FROM staff
		WHERE ($1::text IS NULL OR role = $1)
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	list := []staff.Staff{}
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Delete implements staff.StaffRepository.
func (r *staffRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
}

// exec runs a single-row write and maps a miss to ErrStaffNotFound.
func (r *staffRepositoryImpl) exec(ctx context.Context, query string, args ...interface{}) error {
	q := GetQuerier(ctx, r.db)
	commandTag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return staff.ErrStaffNotFound
	}
	return nil
}

// UpdateLeaveQuota implements staff.StaffRepository.
func (r *staffRepositoryImpl) UpdateLeaveQuota(ctx context.Context, id string, quota int) error {
	return r.exec(ctx, `UPDATE staff SET leave_quota = $1, updated_at = NOW() WHERE id = $2`, quota, id)
}

// UpdateProfile implements staff.StaffRepository.
func (r *staffRepositoryImpl) UpdateProfile(ctx context.Context, id string, name string, phone *string) error {
	return r.exec(ctx, `UPDATE staff SET name = $1, phone = $2, updated_at = NOW() WHERE id = $3`, name, phone, id)
}

// UpdatePassword implements staff.StaffRepository.
func (r *staffRepositoryImpl) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	return r.exec(ctx, `UPDATE staff SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
}
