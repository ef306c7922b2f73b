package settings

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

// AddressList decodes either a JSON array of strings or a single
// comma-separated string into one trimmed, non-empty list.
type AddressList []string

func (l *AddressList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = AddressList{}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = cleanList(list)
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("address list must be an array of strings or a comma-separated string")
	}
	*l = cleanList(strings.Split(joined, ","))
	return nil
}

func cleanList(in []string) AddressList {
	out := make(AddressList, 0, len(in))
	for _, item := range in {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

type UpdateSettingsRequest struct {
	AllowedIPs        AddressList `json:"allowed_ips"`
	AllowedDevices    AddressList `json:"allowed_devices"`
	WorkingHoursStart string      `json:"working_hours_start"`
	WorkingHoursEnd   string      `json:"working_hours_end"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.WorkingHoursStart != "" && !validator.IsValidClock(r.WorkingHoursStart) {
		errs = append(errs, validator.ValidationError{
			Field:   "working_hours_start",
			Message: "working_hours_start must be HH:MM",
		})
	}
	if r.WorkingHoursEnd != "" && !validator.IsValidClock(r.WorkingHoursEnd) {
		errs = append(errs, validator.ValidationError{
			Field:   "working_hours_end",
			Message: "working_hours_end must be HH:MM",
		})
	}
	if len(errs) == 0 && r.WorkingHoursStart != "" && r.WorkingHoursEnd != "" &&
		r.WorkingHoursStart >= r.WorkingHoursEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "working_hours_end",
			Message: "working_hours_end must be after working_hours_start",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	if r.AllowedIPs == nil {
		r.AllowedIPs = AddressList{}
	}
	if r.AllowedDevices == nil {
		r.AllowedDevices = AddressList{}
	}
	return nil
}

type SettingsResponse struct {
	AllowedIPs        []string `json:"allowed_ips"`
	AllowedDevices    []string `json:"allowed_devices"`
	WorkingHoursStart string   `json:"working_hours_start"`
	WorkingHoursEnd   string   `json:"working_hours_end"`
}

func NewSettingsResponse(s *AdminSettings) SettingsResponse {
	if s == nil {
		return SettingsResponse{AllowedIPs: []string{}, AllowedDevices: []string{}}
	}
	resp := SettingsResponse{
		AllowedIPs:        s.AllowedIPs,
		AllowedDevices:    s.AllowedDevices,
		WorkingHoursStart: s.WorkingHoursStart,
		WorkingHoursEnd:   s.WorkingHoursEnd,
	}
	if resp.AllowedIPs == nil {
		resp.AllowedIPs = []string{}
	}
	if resp.AllowedDevices == nil {
		resp.AllowedDevices = []string{}
	}
	return resp
}
