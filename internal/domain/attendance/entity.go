package attendance

import (
	"math"
	"time"
)

// DateLayout is the calendar-day key of a record.
const DateLayout = "2006-01-02"

type State string

const (
	StateNoRecord     State = "no_record"
	StatePunchedIn    State = "punched_in"
	StatePunchedInOut State = "punched_in_out"
)

type PunchType string

const (
	PunchIn  PunchType = "in"
	PunchOut PunchType = "out"
)

// Record is one staff member's attendance for one calendar day.
// At most one exists per (StaffID, Date).
type Record struct {
	ID           string
	StaffID      string
	EmployeeCode string
	Date         string
	PunchIn      *time.Time
	PunchOut     *time.Time
	IPAddress    string
	PhotoPath    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined from staff
	EmployeeName *string
}

// StateOf reports the punch state of r; a nil record is StateNoRecord.
func StateOf(r *Record) State {
	switch {
	case r == nil:
		return StateNoRecord
	case r.PunchOut != nil:
		// Includes a correction-created record holding only a punch-out.
		return StatePunchedInOut
	default:
		return StatePunchedIn
	}
}

// WorkedHours is the span between punches rounded to two decimals,
// or zero when either punch is missing.
func (r Record) WorkedHours() float64 {
	if r.PunchIn == nil || r.PunchOut == nil {
		return 0
	}
	hours := r.PunchOut.Sub(*r.PunchIn).Hours()
	if hours < 0 {
		return 0
	}
	return math.Round(hours*100) / 100
}

// DateOf formats t as a calendar-day key in loc.
func DateOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}
