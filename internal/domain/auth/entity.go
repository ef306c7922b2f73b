package auth

import "time"

const (
	OTPLength = 6
	// MaxOTPAttempts bounds guesses against one issued code.
	MaxOTPAttempts = 5
)

// PasswordOTP is a persisted one-time code for changing a password.
// Only its bcrypt hash is stored.
type PasswordOTP struct {
	ID        string
	StaffID   string
	Email     string
	CodeHash  string
	Attempts  int
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (o PasswordOTP) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
