package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid employee id or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidOTP          = errors.New("invalid or expired otp")
	ErrOAuthNotConfigured  = errors.New("google sign-in is not configured")
	ErrGoogleEmailUnknown  = errors.New("no staff account is registered for this google email")
	ErrGoogleEmailNotValid = errors.New("google email is not verified")
)
