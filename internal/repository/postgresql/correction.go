package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const correctionColumns = `c.id, c.staff_id, to_char(c.correction_date, 'YYYY-MM-DD'),
	c.original_punch_in, c.original_punch_out, c.requested_punch_in, c.requested_punch_out,
	c.reason, c.status, c.admin_comment, c.decided_by, c.decided_at, c.created_at,
	s.name, s.employee_code`

type correctionRepositoryImpl struct {
	db *database.DB
}

func NewCorrectionRepository(db *database.DB) correction.CorrectionRepository {
	return &correctionRepositoryImpl{db: db}
}

func scanCorrection(row pgx.Row) (correction.Correction, error) {
	var c correction.Correction
	err := row.Scan(
		&c.ID,
		&c.StaffID,
		&c.CorrectionDate,
		&c.OriginalPunchIn,
		&c.OriginalPunchOut,
		&c.RequestedPunchIn,
		&c.RequestedPunchOut,
		&c.Reason,
		&c.Status,
		&c.AdminComment,
		&c.DecidedBy,
		&c.DecidedAt,
		&c.CreatedAt,
		&c.EmployeeName,
		&c.EmployeeCode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return correction.Correction{}, correction.ErrCorrectionNotFound
		}
		return correction.Correction{}, err
	}
	return c, nil
}

// Create implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) Create(ctx context.Context, c correction.Correction) (correction.Correction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO punch_corrections (
			staff_id, correction_date, original_punch_in, original_punch_out,
			requested_punch_in, requested_punch_out, reason, status
		) VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		c.StaffID,
		c.CorrectionDate,
		c.OriginalPunchIn,
		c.OriginalPunchOut,
		c.RequestedPunchIn,
		c.RequestedPunchOut,
		c.Reason,
		c.Status,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return correction.Correction{}, fmt.Errorf("failed to create correction: %w", err)
	}
	c.EmployeeName, c.EmployeeCode = nil, nil
	return c, nil
}

// GetByID implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) GetByID(ctx context.Context, id string) (correction.Correction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM punch_corrections c
		LEFT JOIN staff s ON s.id = c.staff_id
		WHERE c.id = $1
	`
	return scanCorrection(q.QueryRow(ctx, query, id))
}

func (r *correctionRepositoryImpl) list(ctx context.Context, where string, args ...interface{}) ([]correction.Correction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM punch_corrections c
		LEFT JOIN staff s ON s.id = c.staff_id
		` + where + `
		ORDER BY c.created_at DESC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}
	defer rows.Close()

	list := []correction.Correction{}
	for rows.Next() {
		c, err := scanCorrection(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ListAll implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) ListAll(ctx context.Context) ([]correction.Correction, error) {
	return r.list(ctx, "")
}

// ListByStaff implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) ListByStaff(ctx context.Context, staffID string) ([]correction.Correction, error) {
	return r.list(ctx, "WHERE c.staff_id = $1", staffID)
}

// UpdateDecision implements correction.CorrectionRepository. The status
// guard lives in the WHERE clause so two admins cannot both decide.
func (r *correctionRepositoryImpl) UpdateDecision(ctx context.Context, id string, status correction.Status, comment *string, decidedBy string, decidedAt time.Time) (correction.Correction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH c AS (
			UPDATE punch_corrections
			SET status = $1, admin_comment = $2, decided_by = $3, decided_at = $4
			WHERE id = $5 AND status = 'pending'
			RETURNING *
		)
		SELECT ` + correctionColumns + `
		FROM c
		LEFT JOIN staff s ON s.id = c.staff_id
	`

	updated, err := scanCorrection(q.QueryRow(ctx, query, status, comment, decidedBy, decidedAt, id))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, correction.ErrCorrectionNotFound) {
		return correction.Correction{}, fmt.Errorf("failed to decide correction: %w", err)
	}

	// Nothing updated: either missing or already decided.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return correction.Correction{}, getErr
	}
	return correction.Correction{}, correction.ErrAlreadyDecided
}
