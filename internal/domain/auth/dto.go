package auth

import (
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	EmployeeCode string `json:"employee_id"`
	Password     string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeCode = strings.TrimSpace(r.EmployeeCode)
	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	if validator.IsEmpty(r.RefreshToken) {
		return validator.ValidationErrors{{Field: "refresh_token", Message: "refresh_token is required"}}
	}
	return nil
}

type RequestOTPRequest struct {
	Email string `json:"email"`
}

func (r *RequestOTPRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if validator.IsEmpty(r.Email) {
		return validator.ValidationErrors{{Field: "email", Message: "email is required"}}
	}
	if !validator.IsValidEmail(r.Email) {
		return validator.ValidationErrors{{Field: "email", Message: "email must be a valid email address"}}
	}
	return nil
}

type VerifyOTPRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

func (r *VerifyOTPRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.OTP = strings.TrimSpace(r.OTP)

	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	if len(r.OTP) != OTPLength || !validator.IsNumeric(r.OTP) {
		errs = append(errs, validator.ValidationError{Field: "otp", Message: "otp must be a 6 digit code"})
	}
	if len(r.NewPassword) < 6 {
		errs = append(errs, validator.ValidationError{Field: "new_password", Message: "new_password must be at least 6 characters long"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type UserSummary struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
}

type LoginResponse struct {
	AccessToken           string      `json:"token"`
	AccessTokenExpiresIn  int64       `json:"access_token_expires_in"`
	RefreshToken          string      `json:"-"`
	RefreshTokenExpiresIn int64       `json:"-"`
	User                  UserSummary `json:"user"`
	ClientIP              string      `json:"clientIP"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}
