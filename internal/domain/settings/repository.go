package settings

import "context"

type SettingsRepository interface {
	// Get returns nil and no error when the singleton has never been written.
	Get(ctx context.Context) (*AdminSettings, error)
	Upsert(ctx context.Context, s AdminSettings) (AdminSettings, error)
}
