package settings

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = identity.Caller{StaffID: "admin-1", EmployeeCode: "ADM001", Role: identity.RoleAdmin}

func TestGetSettings_DefaultWhenUnset(t *testing.T) {
	svc := NewSettingsService(memory.NewStore().Settings())

	got, err := svc.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, settings.SettingsResponse{AllowedIPs: []string{}, AllowedDevices: []string{}}, got)

	ips, err := svc.AllowedWiFiIPs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ips)
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(memory.NewStore().Settings())

	updated, err := svc.UpdateSettings(ctx, admin, settings.UpdateSettingsRequest{
		AllowedIPs:        settings.AddressList{"::ffff:10.0.0.1", "10.0.0.2"},
		AllowedDevices:    settings.AddressList{"192.168.1.5"},
		WorkingHoursStart: "08:00",
		WorkingHoursEnd:   "17:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "08:00", updated.WorkingHoursStart)

	got, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	ips, err := svc.AllowedWiFiIPs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, ips)

	devices, err := svc.AllowedDeviceIPs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"192.168.1.5"}, devices)

	// A second write replaces the singleton wholesale.
	_, err = svc.UpdateSettings(ctx, admin, settings.UpdateSettingsRequest{})
	require.NoError(t, err)
	got, err = svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.AllowedIPs)
	assert.Empty(t, got.WorkingHoursStart)
}

func TestUpdateSettings_Guards(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(memory.NewStore().Settings())

	_, err := svc.UpdateSettings(ctx, identity.Caller{StaffID: "e", Role: identity.RoleEmployee}, settings.UpdateSettingsRequest{})
	assert.ErrorIs(t, err, identity.ErrForbidden)

	_, err = svc.UpdateSettings(ctx, admin, settings.UpdateSettingsRequest{WorkingHoursStart: "25:00"})
	assert.Error(t, err)
}
