package settings

import "time"

// AdminSettings is the singleton holding the punch allow-lists and the
// configured working-hour bounds. Allow-lists are always canonical
// sequences of strings once past the decoding boundary.
type AdminSettings struct {
	ID                string
	AllowedIPs        []string
	AllowedDevices    []string
	WorkingHoursStart string
	WorkingHoursEnd   string
	UpdatedAt         time.Time
}
