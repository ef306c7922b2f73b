package staff

import (
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

// StaffResponse represents staff data in API responses
type StaffResponse struct {
	ID           string  `json:"id"`
	EmployeeCode string  `json:"employee_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone"`
	Role         string  `json:"role"`
	Position     string  `json:"position"`
	LeaveQuota   int     `json:"leave_quota"`
}

func NewStaffResponse(s Staff) StaffResponse {
	return StaffResponse{
		ID:           s.ID,
		EmployeeCode: s.EmployeeCode,
		Name:         s.Name,
		Email:        s.Email,
		Phone:        s.Phone,
		Role:         string(s.Role),
		Position:     s.Position,
		LeaveQuota:   s.LeaveQuota,
	}
}

type ProfileResponse struct {
	ID           string  `json:"id"`
	EmployeeCode string  `json:"employee_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone"`
}

// CreateStaffRequest represents request to add a staff member
type CreateStaffRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Phone        *string `json:"phone,omitempty"`
	EmployeeCode string  `json:"employee_id"`
	Position     string  `json:"position,omitempty"`
	Role         string  `json:"role,omitempty"`
}

func (r *CreateStaffRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.EmployeeCode = strings.TrimSpace(r.EmployeeCode)

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) < 6 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 6 characters",
		})
	}

	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id may only contain letters, numbers, dots, underscores, and hyphens",
		})
	}

	if r.Role != "" && !identity.IsValidRole(identity.Role(r.Role)) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be admin or employee",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateLeaveQuotaRequest struct {
	ID         string `json:"-"`
	LeaveQuota *int   `json:"leave_quota"`
}

func (r *UpdateLeaveQuotaRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.LeaveQuota == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_quota",
			Message: "leave_quota is required",
		})
	} else if *r.LeaveQuota < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_quota",
			Message: "leave_quota must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateProfileRequest struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
}

func (r *UpdateProfileRequest) Validate() error {
	if validator.IsEmpty(r.Name) {
		return validator.ValidationErrors{{Field: "name", Message: "name is required"}}
	}
	if r.Phone != nil && validator.IsEmpty(*r.Phone) {
		r.Phone = nil
	}
	return nil
}
