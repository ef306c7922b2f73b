package settings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/admission"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

type SettingsServiceImpl struct {
	settingsRepo settings.SettingsRepository
}

func NewSettingsService(settingsRepo settings.SettingsRepository) settings.SettingsService {
	return &SettingsServiceImpl{settingsRepo: settingsRepo}
}

// GetSettings implements settings.SettingsService.
func (s *SettingsServiceImpl) GetSettings(ctx context.Context) (settings.SettingsResponse, error) {
	current, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings.NewSettingsResponse(current), nil
}

// UpdateSettings implements settings.SettingsService.
func (s *SettingsServiceImpl) UpdateSettings(ctx context.Context, caller identity.Caller, req settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
		return settings.SettingsResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}

	updated, err := s.settingsRepo.Upsert(ctx, settings.AdminSettings{
		AllowedIPs:        []string(req.AllowedIPs),
		AllowedDevices:    []string(req.AllowedDevices),
		WorkingHoursStart: req.WorkingHoursStart,
		WorkingHoursEnd:   req.WorkingHoursEnd,
	})
	if err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to update settings: %w", err)
	}

	slog.Info("admin settings updated",
		"by", caller.EmployeeCode,
		"allowed_ips", len(updated.AllowedIPs),
		"allowed_devices", len(updated.AllowedDevices),
	)
	return settings.NewSettingsResponse(&updated), nil
}

// AllowedWiFiIPs implements settings.SettingsService.
func (s *SettingsServiceImpl) AllowedWiFiIPs(ctx context.Context) ([]string, error) {
	current, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if current == nil {
		return []string{}, nil
	}
	return admission.NormalizeList(current.AllowedIPs), nil
}

// AllowedDeviceIPs implements settings.SettingsService.
func (s *SettingsServiceImpl) AllowedDeviceIPs(ctx context.Context) ([]string, error) {
	current, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if current == nil {
		return []string{}, nil
	}
	return admission.NormalizeList(current.AllowedDevices), nil
}
