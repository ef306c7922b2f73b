package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type otpRepositoryImpl struct {
	db *database.DB
}

func NewOTPRepository(db *database.DB) auth.OTPRepository {
	return &otpRepositoryImpl{db: db}
}

// Replace implements auth.OTPRepository. Both statements share the caller's
// transaction when there is one.
func (r *otpRepositoryImpl) Replace(ctx context.Context, otp auth.PasswordOTP) (auth.PasswordOTP, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM password_otps WHERE LOWER(email) = LOWER($1)`, otp.Email); err != nil {
		return auth.PasswordOTP{}, fmt.Errorf("failed to clear previous otp: %w", err)
	}

	query := `
		INSERT INTO password_otps (staff_id, email, code_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, attempts, created_at
	`
	err := q.QueryRow(ctx, query, otp.StaffID, otp.Email, otp.CodeHash, otp.ExpiresAt).Scan(&otp.ID, &otp.Attempts, &otp.CreatedAt)
	if err != nil {
		return auth.PasswordOTP{}, fmt.Errorf("failed to store otp: %w", err)
	}
	return otp, nil
}

// GetLatest implements auth.OTPRepository.
func (r *otpRepositoryImpl) GetLatest(ctx context.Context, email string) (*auth.PasswordOTP, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, staff_id, email, code_hash, attempts, expires_at, created_at
		FROM password_otps
		WHERE LOWER(email) = LOWER($1)
		ORDER BY created_at DESC
		LIMIT 1
	`

	var otp auth.PasswordOTP
	err := q.QueryRow(ctx, query, email).Scan(
		&otp.ID, &otp.StaffID, &otp.Email, &otp.CodeHash, &otp.Attempts, &otp.ExpiresAt, &otp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get otp: %w", err)
	}
	return &otp, nil
}

// IncrementAttempts implements auth.OTPRepository.
func (r *otpRepositoryImpl) IncrementAttempts(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `UPDATE password_otps SET attempts = attempts + 1 WHERE id = $1`, id)
	return err
}

// Delete implements auth.OTPRepository.
func (r *otpRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `DELETE FROM password_otps WHERE id = $1`, id)
	return err
}

// DeleteExpired implements auth.OTPRepository.
func (r *otpRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)
	commandTag, err := q.Exec(ctx, `DELETE FROM password_otps WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return commandTag.RowsAffected(), nil
}
