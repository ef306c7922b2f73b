package settings

import "errors"

var (
	ErrSettingsNotConfigured = errors.New("admin settings not configured")
)
