package correction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

type CorrectionServiceImpl struct {
	transactor     database.Transactor
	correctionRepo correction.CorrectionRepository
	staffRepo      staff.StaffRepository
	ledger         attendance.Ledger
	loc            *time.Location
	now            func() time.Time
}

func NewCorrectionService(
	transactor database.Transactor,
	correctionRepo correction.CorrectionRepository,
	staffRepo staff.StaffRepository,
	ledger attendance.Ledger,
	loc *time.Location,
) correction.CorrectionService {
	if loc == nil {
		loc = time.Local
	}
	return &CorrectionServiceImpl{
		transactor:     transactor,
		correctionRepo: correctionRepo,
		staffRepo:      staffRepo,
		ledger:         ledger,
		loc:            loc,
		now:            time.Now,
	}
}

// Submit implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Submit(ctx context.Context, caller identity.Caller, req correction.SubmitCorrectionRequest) (correction.CorrectionResponse, error) {
	if caller.StaffID == "" {
		return correction.CorrectionResponse{}, identity.ErrUnauthenticated
	}
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	date := req.CorrectionDate
	if date == "" {
		anchor := req.RequestedPunchIn
		if anchor == nil {
			anchor = req.RequestedPunchOut
		}
		date = attendance.DateOf(*anchor, s.loc)
	}

	// Audit only; nothing is locked between submission and decision.
	snapshot, err := s.ledger.Snapshot(ctx, caller.StaffID, date)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	c := correction.Correction{
		StaffID:           caller.StaffID,
		CorrectionDate:    date,
		RequestedPunchIn:  req.RequestedPunchIn,
		RequestedPunchOut: req.RequestedPunchOut,
		Reason:            req.Reason,
		Status:            correction.StatusPending,
	}
	if snapshot != nil {
		c.OriginalPunchIn = snapshot.PunchIn
		c.OriginalPunchOut = snapshot.PunchOut
	}

	created, err := s.correctionRepo.Create(ctx, c)
	if err != nil {
		return correction.CorrectionResponse{}, fmt.Errorf("failed to create correction: %w", err)
	}

	slog.Info("correction submitted", "employee_code", caller.EmployeeCode, "date", date, "id", created.ID)
	return correction.NewCorrectionResponse(created), nil
}

// ListAll implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ListAll(ctx context.Context, caller identity.Caller) ([]correction.CorrectionResponse, error) {
	if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
		return nil, err
	}

	list, err := s.correctionRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}
	return toResponses(list), nil
}

// ListMine implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ListMine(ctx context.Context, caller identity.Caller) ([]correction.CorrectionResponse, error) {
	if caller.StaffID == "" {
		return nil, identity.ErrUnauthenticated
	}

	list, err := s.correctionRepo.ListByStaff(ctx, caller.StaffID)
	if err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}
	return toResponses(list), nil
}

func toResponses(list []correction.Correction) []correction.CorrectionResponse {
	out := make([]correction.CorrectionResponse, 0, len(list))
	for _, c := range list {
		out = append(out, correction.NewCorrectionResponse(c))
	}
	return out
}

// Decide implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Decide(ctx context.Context, caller identity.Caller, req correction.DecideCorrectionRequest) (correction.CorrectionResponse, error) {
	if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
		return correction.CorrectionResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	var decided correction.Correction
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.correctionRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if current.Status != correction.StatusPending {
			return correction.ErrAlreadyDecided
		}

		decided, err = s.correctionRepo.UpdateDecision(txCtx, req.ID, req.Status, req.AdminComment, caller.StaffID, s.now())
		if err != nil {
			return err
		}

		if req.Status != correction.StatusApproved {
			return nil
		}

		owner, err := s.staffRepo.GetByID(txCtx, decided.StaffID)
		if err != nil {
			return err
		}
		_, err = s.ledger.ApplyCorrection(txCtx, decided.StaffID, owner.EmployeeCode, decided.CorrectionDate,
			decided.RequestedPunchIn, decided.RequestedPunchOut)
		return err
	})
	if err != nil {
		// Domain sentinels survive the wrap for the HTTP layer.
		return correction.CorrectionResponse{}, fmt.Errorf("failed to decide correction: %w", err)
	}

	slog.Info("correction decided",
		"id", decided.ID,
		"status", decided.Status,
		"date", decided.CorrectionDate,
		"by", caller.EmployeeCode,
	)
	return correction.NewCorrectionResponse(decided), nil
}
