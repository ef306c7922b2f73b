package memory

import (
	"context"
	"slices"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/settings"
)

type settingsRepository struct{ *Store }

func (s *Store) Settings() settings.SettingsRepository { return settingsRepository{s} }

func (r settingsRepository) Get(ctx context.Context) (*settings.AdminSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.settings == nil {
		return nil, nil
	}
	cp := *r.state.settings
	cp.AllowedIPs = slices.Clone(cp.AllowedIPs)
	cp.AllowedDevices = slices.Clone(cp.AllowedDevices)
	return &cp, nil
}

func (r settingsRepository) Upsert(ctx context.Context, in settings.AdminSettings) (settings.AdminSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in.ID = "settings"
	in.AllowedIPs = slices.Clone(in.AllowedIPs)
	in.AllowedDevices = slices.Clone(in.AllowedDevices)
	_, in.UpdatedAt = r.nextID("settings")
	r.state.settings = &in
	return in, nil
}
