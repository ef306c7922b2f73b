package correction

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// Correction proposes new punch times for one attendance day. The
// original times are an audit snapshot taken at submission.
type Correction struct {
	ID                string
	StaffID           string
	CorrectionDate    string
	OriginalPunchIn   *time.Time
	OriginalPunchOut  *time.Time
	RequestedPunchIn  *time.Time
	RequestedPunchOut *time.Time
	Reason            string
	Status            Status
	AdminComment      *string
	DecidedBy         *string
	DecidedAt         *time.Time
	CreatedAt         time.Time

	// Joined from staff
	EmployeeName *string
	EmployeeCode *string
}
