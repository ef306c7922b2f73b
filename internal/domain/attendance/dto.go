package attendance

import (
	"time"
)

const timestampLayout = time.RFC3339

type PunchRequest struct {
	// Observed addresses in forwarding order.
	Addresses []string
	// PhotoPath is the already stored evidence reference, if any.
	PhotoPath *string
}

type PunchResponse struct {
	Type    PunchType `json:"type"`
	Message string    `json:"message"`
	Date    string    `json:"date"`
	Time    string    `json:"time"`

	// ReplacedPhotoPath is the evidence a punch-out photo superseded. The
	// caller owns removing it from storage.
	ReplacedPhotoPath string `json:"-"`
}

type StatusResponse struct {
	Date     string  `json:"date"`
	PunchIn  *string `json:"punch_in"`
	PunchOut *string `json:"punch_out"`
}

type RecordResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	PunchIn      *string `json:"punch_in"`
	PunchOut     *string `json:"punch_out"`
	IPAddress    string  `json:"ip"`
	HasPhoto     bool    `json:"has_photo"`
}

func NewRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeCode,
		EmployeeName: r.EmployeeName,
		Date:         r.Date,
		PunchIn:      FormatTimestamp(r.PunchIn),
		PunchOut:     FormatTimestamp(r.PunchOut),
		IPAddress:    r.IPAddress,
		HasPhoto:     r.PhotoPath != nil && *r.PhotoPath != "",
	}
}

type DailyHours struct {
	Date     string  `json:"date"`
	PunchIn  *string `json:"punch_in_time"`
	PunchOut *string `json:"punch_out_time"`
	Hours    float64 `json:"hours"`
}

type SummaryResponse struct {
	Month      string       `json:"month"`
	Days       []DailyHours `json:"days"`
	TotalHours float64      `json:"total_hours"`
}

// FormatTimestamp renders an optional punch time, nil stays nil.
func FormatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timestampLayout)
	return &s
}
