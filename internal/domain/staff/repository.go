package staff

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

type StaffRepository interface {
	Create(ctx context.Context, newStaff Staff) (Staff, error)
	GetByID(ctx context.Context, id string) (Staff, error)
	GetByEmployeeCode(ctx context.Context, code string) (Staff, error)
	GetByEmail(ctx context.Context, email string) (Staff, error)
	// List returns all staff, or only those holding role when it is set.
	List(ctx context.Context, role *identity.Role) ([]Staff, error)
	Delete(ctx context.Context, id string) error
	UpdateLeaveQuota(ctx context.Context, id string, quota int) error
	UpdateProfile(ctx context.Context, id string, name string, phone *string) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}
