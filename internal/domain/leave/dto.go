package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type ApplyLeaveRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`

	startDate time.Time
	endDate   time.Time
}

func (r *ApplyLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
	r.Reason = strings.TrimSpace(r.Reason)

	var ok bool
	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date is required"})
	} else if r.startDate, ok = validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date is required"})
	} else if r.endDate, ok = validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}

	if len(errs) > 0 {
		return errs
	}

	if r.endDate.Before(r.startDate) {
		return validator.ValidationErrors{{Field: "end_date", Message: "end_date must not be before start_date"}}
	}
	return nil
}

// Dates returns the parsed bounds; valid only after Validate succeeds.
func (r *ApplyLeaveRequest) Dates() (time.Time, time.Time) {
	return r.startDate, r.endDate
}

type ApplyLeaveResponse struct {
	Leave             LeaveResponse `json:"leave"`
	MonthlyLeavesUsed int           `json:"monthly_leaves_used"`
	Limit             int           `json:"limit"`
}

type DecideLeaveRequest struct {
	ID     string `json:"-"`
	Status Status `json:"status"`
}

func (r *DecideLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "leave id is required"})
	}
	if !r.Status.IsDecision() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be approved or rejected"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveResponse struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	Name         *string   `json:"name,omitempty"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	Reason       string    `json:"reason"`
	Status       Status    `json:"status"`
	Notification bool      `json:"notification"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewLeaveResponse(l LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:           l.ID,
		EmployeeID:   l.EmployeeCode,
		Name:         l.EmployeeName,
		StartDate:    l.StartDate.Format(DateLayout),
		EndDate:      l.EndDate.Format(DateLayout),
		Reason:       l.Reason,
		Status:       l.Status,
		Notification: l.Notification,
		CreatedAt:    l.CreatedAt,
	}
}

func NewLeaveResponses(list []LeaveRequest) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(list))
	for _, l := range list {
		out = append(out, NewLeaveResponse(l))
	}
	return out
}
