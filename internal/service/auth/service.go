package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/oauth"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	transactor   database.Transactor
	staffRepo    staff.StaffRepository
	refreshRepo  auth.RefreshTokenRepository
	otpRepo      auth.OTPRepository
	jwtService   jwt.Service
	emailService email.EmailService
	google       oauth.GoogleService
	otpTTL       time.Duration
	now          func() time.Time
}

// NewAuthService wires the auth collaborator. google may be nil when Google
// sign-in is not configured.
func NewAuthService(
	transactor database.Transactor,
	staffRepo staff.StaffRepository,
	refreshRepo auth.RefreshTokenRepository,
	otpRepo auth.OTPRepository,
	jwtService jwt.Service,
	emailService email.EmailService,
	google oauth.GoogleService,
	otpTTL time.Duration,
) auth.AuthService {
	if otpTTL <= 0 {
		otpTTL = 5 * time.Minute
	}
	return &AuthServiceImpl{
		transactor:   transactor,
		staffRepo:    staffRepo,
		refreshRepo:  refreshRepo,
		otpRepo:      otpRepo,
		jwtService:   jwtService,
		emailService: emailService,
		google:       google,
		otpTTL:       otpTTL,
		now:          time.Now,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	member, err := a.staffRepo.GetByEmployeeCode(ctx, req.EmployeeCode)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get staff by employee code: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	resp, err := a.issueTokens(ctx, member, session)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	slog.Info("Login success", "employee_id", member.EmployeeCode, "client_ip", session.IPAddress)
	return resp, nil
}

// issueTokens mints an access/refresh pair and persists the refresh token.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, member staff.Staff, session auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	resp := auth.LoginResponse{
		User: auth.UserSummary{
			ID:         member.ID,
			EmployeeID: member.EmployeeCode,
			Name:       member.Name,
			Role:       string(member.Role),
		},
		ClientIP: session.IPAddress,
	}

	err := a.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		resp.AccessToken, resp.AccessTokenExpiresIn, err = a.jwtService.GenerateAccessToken(member.Caller())
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		resp.RefreshToken, resp.RefreshTokenExpiresIn, err = a.jwtService.GenerateRefreshToken(member.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		if err := a.refreshRepo.CreateRefreshToken(txCtx, member.ID, resp.RefreshToken, resp.RefreshTokenExpiresIn, session); err != nil {
			return fmt.Errorf("failed to save refresh token to database: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.LoginResponse{}, err
	}
	return resp, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	if _, err := a.jwtService.ParseRefreshToken(req.RefreshToken); err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	staffID, revoked, err := a.refreshRepo.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	member, err := a.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrUserNotFound
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get staff: %w", err)
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.jwtService.GenerateAccessToken(member.Caller())
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return resp, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return a.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, revoked, err := a.refreshRepo.IsRefreshTokenRevoked(txCtx, token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				return nil
			}
			return fmt.Errorf("failed to check if refresh token is revoked: %w", err)
		}
		if revoked {
			return nil
		}
		if err := a.refreshRepo.RevokeRefreshToken(txCtx, token); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
		return nil
	})
}

// RequestOTP implements auth.AuthService. Unknown addresses are accepted
// silently so the endpoint does not reveal which emails are registered.
func (a *AuthServiceImpl) RequestOTP(ctx context.Context, req auth.RequestOTPRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	member, err := a.staffRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			slog.Warn("OTP requested for unknown email", "email", req.Email)
			return nil
		}
		return fmt.Errorf("failed to get staff by email: %w", err)
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash otp: %w", err)
	}

	now := a.now()
	if _, err := a.otpRepo.Replace(ctx, auth.PasswordOTP{
		StaffID:   member.ID,
		Email:     req.Email,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(a.otpTTL),
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if err := a.emailService.SendOTP(req.Email, code, a.otpTTL); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}
	return nil
}

// VerifyOTPAndChangePassword implements auth.AuthService.
func (a *AuthServiceImpl) VerifyOTPAndChangePassword(ctx context.Context, req auth.VerifyOTPRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	otp, err := a.otpRepo.GetLatest(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to get otp: %w", err)
	}
	if otp == nil {
		return auth.ErrInvalidOTP
	}

	if otp.Expired(a.now()) || otp.Attempts >= auth.MaxOTPAttempts {
		if err := a.otpRepo.Delete(ctx, otp.ID); err != nil {
			return fmt.Errorf("failed to delete otp: %w", err)
		}
		return auth.ErrInvalidOTP
	}

	if err := bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(req.OTP)); err != nil {
		if err := a.otpRepo.IncrementAttempts(ctx, otp.ID); err != nil {
			return fmt.Errorf("failed to record otp attempt: %w", err)
		}
		return auth.ErrInvalidOTP
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = a.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := a.staffRepo.UpdatePassword(txCtx, otp.StaffID, string(passwordHash)); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if err := a.otpRepo.Delete(txCtx, otp.ID); err != nil {
			return fmt.Errorf("failed to consume otp: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Password changed via OTP", "staff_id", otp.StaffID)
	return nil
}

// GoogleRedirectURL implements auth.AuthService.
func (a *AuthServiceImpl) GoogleRedirectURL(userAgent string) (string, string, error) {
	if a.google == nil {
		return "", "", auth.ErrOAuthNotConfigured
	}
	state, err := a.google.GenerateState(userAgent)
	if err != nil {
		return "", "", err
	}
	return a.google.RedirectURL(state), state, nil
}

// LoginWithGoogle implements auth.AuthService. Only existing staff may sign in.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, code string, session auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	if a.google == nil {
		return auth.LoginResponse{}, auth.ErrOAuthNotConfigured
	}

	info, err := a.google.Authenticate(ctx, code)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}
	if !info.VerifiedEmail {
		return auth.LoginResponse{}, auth.ErrGoogleEmailNotValid
	}

	member, err := a.staffRepo.GetByEmail(ctx, info.Email)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return auth.LoginResponse{}, auth.ErrGoogleEmailUnknown
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get staff by email: %w", err)
	}

	return a.issueTokens(ctx, member, session)
}

// PurgeExpiredOTPs implements auth.AuthService.
func (a *AuthServiceImpl) PurgeExpiredOTPs(ctx context.Context) (int64, error) {
	n, err := a.otpRepo.DeleteExpired(ctx, a.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired otps: %w", err)
	}
	return n, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
