package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const settingsColumns = `id::text, allowed_ips, allowed_devices, working_hours_start, working_hours_end, updated_at`

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

func scanSettings(row pgx.Row) (settings.AdminSettings, error) {
	var s settings.AdminSettings
	err := row.Scan(&s.ID, &s.AllowedIPs, &s.AllowedDevices, &s.WorkingHoursStart, &s.WorkingHoursEnd, &s.UpdatedAt)
	return s, err
}

// Get implements settings.SettingsRepository.
func (r *settingsRepositoryImpl) Get(ctx context.Context) (*settings.AdminSettings, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSettings(q.QueryRow(ctx, `SELECT `+settingsColumns+` FROM admin_settings WHERE id = 1`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin settings: %w", err)
	}
	return &s, nil
}

// Upsert implements settings.SettingsRepository.
func (r *settingsRepositoryImpl) Upsert(ctx context.Context, in settings.AdminSettings) (settings.AdminSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO admin_settings (id, allowed_ips, allowed_devices, working_hours_start, working_hours_end)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET allowed_ips = EXCLUDED.allowed_ips,
			allowed_devices = EXCLUDED.allowed_devices,
			working_hours_start = EXCLUDED.working_hours_start,
			working_hours_end = EXCLUDED.working_hours_end,
			updated_at = NOW()
		RETURNING ` + settingsColumns

	allowedIPs, allowedDevices := in.AllowedIPs, in.AllowedDevices
	if allowedIPs == nil {
		allowedIPs = []string{}
	}
	if allowedDevices == nil {
		allowedDevices = []string{}
	}

	s, err := scanSettings(q.QueryRow(ctx, query, allowedIPs, allowedDevices, in.WorkingHoursStart, in.WorkingHoursEnd))
	if err != nil {
		return settings.AdminSettings{}, fmt.Errorf("failed to upsert admin settings: %w", err)
	}
	return s, nil
}
