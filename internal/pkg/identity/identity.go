// Package identity resolves the authenticated caller from a verified JWT and
// holds the single role predicate shared by every admin-only operation.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
)

type Role string

const (
	RoleAdmin    Role = "admin"    // Reviews workflows, manages staff and settings
	RoleEmployee Role = "employee" // Punches, requests leave and corrections
)

// IsValidRole reports whether r is one of the known roles.
func IsValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleEmployee
}

// JWT claim names carrying the caller.
const (
	ClaimStaffID      = "staff_id"
	ClaimEmployeeCode = "employee_code"
	ClaimRole         = "role"
)

var (
	ErrUnauthenticated = errors.New("unauthorized: token missing or invalid")
	ErrForbidden       = errors.New("insufficient role")
)

// Caller is the resolved identity every core operation receives.
type Caller struct {
	StaffID      string
	EmployeeCode string
	Role         Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// RequireRole fails with ErrForbidden unless caller holds role.
func RequireRole(caller Caller, role Role) error {
	if caller.StaffID == "" {
		return ErrUnauthenticated
	}
	if caller.Role != role {
		return fmt.Errorf("%w: %s only", ErrForbidden, role)
	}
	return nil
}

// FromContext reads the caller out of the claims placed by jwtauth.Verifier.
func FromContext(ctx context.Context) (Caller, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return Caller{}, ErrUnauthenticated
	}

	if typ, ok := claims["type"].(string); ok && typ != "access" {
		return Caller{}, ErrUnauthenticated
	}

	staffID, ok := claims[ClaimStaffID].(string)
	if !ok || staffID == "" {
		return Caller{}, ErrUnauthenticated
	}

	employeeCode, _ := claims[ClaimEmployeeCode].(string)

	role, ok := claims[ClaimRole].(string)
	if !ok || !IsValidRole(Role(role)) {
		return Caller{}, ErrUnauthenticated
	}

	return Caller{
		StaffID:      staffID,
		EmployeeCode: employeeCode,
		Role:         Role(role),
	}, nil
}
