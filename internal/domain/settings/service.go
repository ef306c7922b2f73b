package settings

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

type SettingsService interface {
	// GetSettings returns the stored settings or an empty default.
	GetSettings(ctx context.Context) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, caller identity.Caller, req UpdateSettingsRequest) (SettingsResponse, error)
	AllowedWiFiIPs(ctx context.Context) ([]string, error)
	AllowedDeviceIPs(ctx context.Context) ([]string, error)
}
