package auth

import (
	"context"
	"time"
)

type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, staffID string, token string, expiresAt int64, sessionReq SessionTrackingRequest) error
	// IsRefreshTokenRevoked returns the owning staff id and whether the token
	// is revoked or expired.
	IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

type OTPRepository interface {
	// Replace drops any outstanding code for the email and stores otp.
	Replace(ctx context.Context, otp PasswordOTP) (PasswordOTP, error)
	// GetLatest returns nil when the email has no outstanding code.
	GetLatest(ctx context.Context, email string) (*PasswordOTP, error)
	IncrementAttempts(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
