package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (LoginResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, token string) error

	RequestOTP(ctx context.Context, req RequestOTPRequest) error
	VerifyOTPAndChangePassword(ctx context.Context, req VerifyOTPRequest) error

	GoogleRedirectURL(userAgent string) (url string, state string, err error)
	LoginWithGoogle(ctx context.Context, code string, session SessionTrackingRequest) (LoginResponse, error)

	// PurgeExpiredOTPs is run by the scheduler.
	PurgeExpiredOTPs(ctx context.Context) (int64, error)
}
