package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
)

type refreshTokenRepository struct{ *Store }

func (s *Store) RefreshTokens() auth.RefreshTokenRepository { return refreshTokenRepository{s} }

func (r refreshTokenRepository) CreateRefreshToken(ctx context.Context, staffID string, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.refresh[token] = refreshToken{staffID: staffID, expiresAt: time.Unix(expiresAt, 0)}
	return nil
}

func (r refreshTokenRepository) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.state.refresh[token]
	if !ok {
		return "", false, auth.ErrInvalidToken
	}
	return t.staffID, t.revoked || !t.expiresAt.After(time.Now()), nil
}

func (r refreshTokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.state.refresh[token]; ok {
		t.revoked = true
		r.state.refresh[token] = t
	}
	return nil
}

type otpRepository struct{ *Store }

func (s *Store) OTPs() auth.OTPRepository { return otpRepository{s} }

func (r otpRepository) Replace(ctx context.Context, otp auth.PasswordOTP) (auth.PasswordOTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.state.otps {
		if existing.Email == otp.Email {
			delete(r.state.otps, id)
		}
	}
	otp.ID, _ = r.nextID("otp")
	otp.Attempts = 0
	r.state.otps[otp.ID] = otp
	return otp, nil
}

func (r otpRepository) GetLatest(ctx context.Context, email string) (*auth.PasswordOTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *auth.PasswordOTP
	for _, otp := range r.state.otps {
		if otp.Email != email {
			continue
		}
		if latest == nil || otp.CreatedAt.After(latest.CreatedAt) {
			cp := otp
			latest = &cp
		}
	}
	return latest, nil
}

func (r otpRepository) IncrementAttempts(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if otp, ok := r.state.otps[id]; ok {
		otp.Attempts++
		r.state.otps[id] = otp
	}
	return nil
}

func (r otpRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.state.otps, id)
	return nil
}

func (r otpRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, otp := range r.state.otps {
		if otp.Expired(now) {
			delete(r.state.otps, id)
			n++
		}
	}
	return n, nil
}
