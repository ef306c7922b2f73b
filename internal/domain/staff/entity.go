package staff

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

// DefaultLeaveQuota is assigned to new staff when none is given.
const DefaultLeaveQuota = 12

type Staff struct {
	ID           string
	EmployeeCode string
	Name         string
	Email        string
	Phone        *string
	PasswordHash string
	Role         identity.Role
	Position     string
	LeaveQuota   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if the staff member holds the admin role
func (s *Staff) IsAdmin() bool {
	return s.Role == identity.RoleAdmin
}

// Caller resolves the identity a staff member acts under.
func (s *Staff) Caller() identity.Caller {
	return identity.Caller{StaffID: s.ID, EmployeeCode: s.EmployeeCode, Role: s.Role}
}
