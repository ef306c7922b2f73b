package staff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
	"golang.org/x/crypto/bcrypt"
)

const defaultPosition = "N/A"

type StaffServiceImpl struct {
	staffRepo staff.StaffRepository
}

func NewStaffService(staffRepo staff.StaffRepository) staff.StaffService {
	return &StaffServiceImpl{staffRepo: staffRepo}
}

func toResponses(list []staff.Staff) []staff.StaffResponse {
	out := make([]staff.StaffResponse, 0, len(list))
	for _, s := range list {
		out = append(out, staff.NewStaffResponse(s))
	}
	return out
}

// ListStaff implements staff.StaffService.
func (s *StaffServiceImpl) ListStaff(ctx context.Context, caller identity.Caller) ([]staff.StaffResponse, error) {
	if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
		return nil, err
	}

	list, err := s.staffRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return toResponses(list), nil
}

// ListProfiles implements staff.StaffService.
func (s *StaffServiceImpl) ListProfiles(ctx context.Context, caller identity.Caller) ([]staff.StaffResponse, error) {
	if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
		return nil, err
	}

	role := identity.RoleEmployee
	list, err := s.staffRepo.List(ctx, &role)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee profiles: %w", err)
	}
	return toResponses(list), nil
}

// CreateStaff implements staff.StaffService.
func (s *StaffServiceImpl) CreateStaff(ctx context.Context, caller identity.Caller, req staff.CreateStaffRequest) (staff.StaffResponse, error) {
	if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
		return staff.StaffResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return staff.StaffResponse{}, err
	}

	if _, err := s.staffRepo.GetByEmployeeCode(ctx, req.EmployeeCode); err == nil {
		return staff.StaffResponse{}, staff.ErrEmployeeCodeExists
	} else if !errors.Is(err, staff.ErrStaffNotFound) {
		return staff.StaffResponse{}, fmt.Errorf("failed to check employee code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return staff.StaffResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	role := identity.RoleEmployee
	if req.Role != "" {
		role = identity.Role(req.Role)
	}
	position := strings.TrimSpace(req.Position)
	if position == "" {
		position = defaultPosition
	}

	created, err := s.staffRepo.Create(ctx, staff.Staff{
		EmployeeCode: req.EmployeeCode,
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         role,
		Position:     position,
		LeaveQuota:   staff.DefaultLeaveQuota,
	})
	if err != nil {
		if errors.Is(err, staff.ErrEmployeeCodeExists) || errors.Is(err, staff.ErrEmailExists) {
			return staff.StaffResponse{}, err
		}
		return staff.StaffResponse{}, fmt.Errorf("failed to create staff: %w", err)
	}

	slog.Info("staff created", "employee_code", created.EmployeeCode, "role", created.Role, "by", caller.EmployeeCode)
	return staff.NewStaffResponse(created), nil
}

// DeleteStaff implements staff.StaffService.
func (s *StaffServiceImpl) DeleteStaff(ctx context.Context, caller identity.Caller, id string) error {
	if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
		return err
	}
	if id == caller.StaffID {
		return staff.ErrCannotDeleteSelf
	}

	if err := s.staffRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete staff: %w", err)
	}
	return nil
}

// UpdateLeaveQuota implements staff.StaffService.
func (s *StaffServiceImpl) UpdateLeaveQuota(ctx context.Context, caller identity.Caller, req staff.UpdateLeaveQuotaRequest) error {
	if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := s.staffRepo.UpdateLeaveQuota(ctx, req.ID, *req.LeaveQuota); err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return err
		}
		return fmt.Errorf("failed to update leave quota: %w", err)
	}
	return nil
}

// GetProfile implements staff.StaffService.
func (s *StaffServiceImpl) GetProfile(ctx context.Context, caller identity.Caller) (staff.ProfileResponse, error) {
	if caller.StaffID == "" {
		return staff.ProfileResponse{}, identity.ErrUnauthenticated
	}

	member, err := s.staffRepo.GetByID(ctx, caller.StaffID)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return staff.ProfileResponse{}, err
		}
		return staff.ProfileResponse{}, fmt.Errorf("failed to get profile: %w", err)
	}

	return staff.ProfileResponse{
		ID:           member.ID,
		EmployeeCode: member.EmployeeCode,
		Name:         member.Name,
		Email:        member.Email,
		Phone:        member.Phone,
	}, nil
}

// UpdateProfile implements staff.StaffService.
func (s *StaffServiceImpl) UpdateProfile(ctx context.Context, caller identity.Caller, req staff.UpdateProfileRequest) error {
	if caller.StaffID == "" {
		return identity.ErrUnauthenticated
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := s.staffRepo.UpdateProfile(ctx, caller.StaffID, strings.TrimSpace(req.Name), req.Phone); err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return err
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
