package correction

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type SubmitCorrectionRequest struct {
	CorrectionDate    string     `json:"correction_date"`
	RequestedPunchIn  *time.Time `json:"requested_punch_in"`
	RequestedPunchOut *time.Time `json:"requested_punch_out"`
	Reason            string     `json:"reason"`
}

func (r *SubmitCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.RequestedPunchIn == nil && r.RequestedPunchOut == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "requested_punch_in",
			Message: "at least one of requested_punch_in or requested_punch_out is required",
		})
	}

	if r.RequestedPunchIn != nil && r.RequestedPunchOut != nil && !r.RequestedPunchIn.Before(*r.RequestedPunchOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "requested_punch_out",
			Message: "requested_punch_out must be after requested_punch_in",
		})
	}

	r.CorrectionDate = strings.TrimSpace(r.CorrectionDate)
	if _, ok := validator.IsValidDate(r.CorrectionDate); r.CorrectionDate != "" && !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "correction_date",
			Message: "correction_date must be in YYYY-MM-DD format",
		})
	}

	r.Reason = strings.TrimSpace(r.Reason)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecideCorrectionRequest struct {
	ID           string  `json:"-"`
	Status       Status  `json:"status"`
	AdminComment *string `json:"admin_comment"`
}

func (r *DecideCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "correction id is required",
		})
	}
	if !r.Status.IsDecision() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: ErrInvalidDecision.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CorrectionResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name,omitempty"`
	EmployeeID        string     `json:"employee_id,omitempty"`
	CorrectionDate    string     `json:"correction_date"`
	OriginalPunchIn   *time.Time `json:"original_punch_in"`
	OriginalPunchOut  *time.Time `json:"original_punch_out"`
	RequestedPunchIn  *time.Time `json:"requested_punch_in"`
	RequestedPunchOut *time.Time `json:"requested_punch_out"`
	Reason            string     `json:"reason"`
	Status            Status     `json:"status"`
	AdminComment      *string    `json:"admin_comment"`
	CreatedAt         time.Time  `json:"created_at"`
}

func NewCorrectionResponse(c Correction) CorrectionResponse {
	resp := CorrectionResponse{
		ID:                c.ID,
		CorrectionDate:    c.CorrectionDate,
		OriginalPunchIn:   c.OriginalPunchIn,
		OriginalPunchOut:  c.OriginalPunchOut,
		RequestedPunchIn:  c.RequestedPunchIn,
		RequestedPunchOut: c.RequestedPunchOut,
		Reason:            c.Reason,
		Status:            c.Status,
		AdminComment:      c.AdminComment,
		CreatedAt:         c.CreatedAt,
	}
	if c.EmployeeName != nil {
		resp.Name = *c.EmployeeName
	}
	if c.EmployeeCode != nil {
		resp.EmployeeID = *c.EmployeeCode
	}
	return resp
}
