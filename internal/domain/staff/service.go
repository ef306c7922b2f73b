package staff

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

// StaffService covers the staff directory and self-service profile.
type StaffService interface {
	ListStaff(ctx context.Context, caller identity.Caller) ([]StaffResponse, error)
	ListProfiles(ctx context.Context, caller identity.Caller) ([]StaffResponse, error)
	CreateStaff(ctx context.Context, caller identity.Caller, req CreateStaffRequest) (StaffResponse, error)
	DeleteStaff(ctx context.Context, caller identity.Caller, id string) error
	UpdateLeaveQuota(ctx context.Context, caller identity.Caller, req UpdateLeaveQuotaRequest) error

	GetProfile(ctx context.Context, caller identity.Caller) (ProfileResponse, error)
	UpdateProfile(ctx context.Context, caller identity.Caller, req UpdateProfileRequest) error
}
