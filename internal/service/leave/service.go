package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

type LeaveServiceImpl struct {
	leaveRepo leave.LeaveRequestRepository
	staffRepo staff.StaffRepository
	loc       *time.Location
	now       func() time.Time
}

func NewLeaveService(leaveRepo leave.LeaveRequestRepository, staffRepo staff.StaffRepository, loc *time.Location) leave.LeaveService {
	if loc == nil {
		loc = time.Local
	}
	return &LeaveServiceImpl{
		leaveRepo: leaveRepo,
		staffRepo: staffRepo,
		loc:       loc,
		now:       time.Now,
	}
}

// Apply implements leave.LeaveService. Only the yearly count blocks; the
// monthly count is reported back but never enforced.
func (s *LeaveServiceImpl) Apply(ctx context.Context, caller identity.Caller, req leave.ApplyLeaveRequest) (leave.ApplyLeaveResponse, error) {
	if caller.StaffID == "" {
		return leave.ApplyLeaveResponse{}, identity.ErrUnauthenticated
	}
	if err := req.Validate(); err != nil {
		return leave.ApplyLeaveResponse{}, err
	}

	now := s.now().In(s.loc)

	yearStart, yearEnd := leave.YearBounds(now)
	yearly, err := s.leaveRepo.CountByStartBetween(ctx, caller.StaffID, yearStart, yearEnd, leave.CountedStatuses)
	if err != nil {
		return leave.ApplyLeaveResponse{}, fmt.Errorf("failed to count yearly leaves: %w", err)
	}

	monthStart, monthEnd := leave.MonthBounds(now)
	monthly, err := s.leaveRepo.CountByStartBetween(ctx, caller.StaffID, monthStart, monthEnd, leave.CountedStatuses)
	if err != nil {
		return leave.ApplyLeaveResponse{}, fmt.Errorf("failed to count monthly leaves: %w", err)
	}

	if yearly >= leave.YearlyLimit {
		return leave.ApplyLeaveResponse{}, leave.ErrYearlyLimitReached
	}

	slog.Info("monthly leave count", "employee_code", caller.EmployeeCode, "monthly", monthly, "yearly", yearly)

	owner, err := s.staffRepo.GetByID(ctx, caller.StaffID)
	if err != nil {
		return leave.ApplyLeaveResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	start, end := req.Dates()
	created, err := s.leaveRepo.Create(ctx, leave.LeaveRequest{
		StaffID:      owner.ID,
		EmployeeCode: owner.EmployeeCode,
		StartDate:    start,
		EndDate:      end,
		Reason:       req.Reason,
		Status:       leave.StatusPending,
		Notification: true,
	})
	if err != nil {
		return leave.ApplyLeaveResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return leave.ApplyLeaveResponse{
		Leave:             leave.NewLeaveResponse(created),
		MonthlyLeavesUsed: monthly,
		Limit:             leave.MonthlyDisplayLimit,
	}, nil
}

// Cancel implements leave.LeaveService.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, caller identity.Caller, id string) error {
	if caller.StaffID == "" {
		return identity.ErrUnauthenticated
	}

	current, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.StaffID != caller.StaffID {
		return leave.ErrLeaveRequestNotFound
	}
	if current.Status != leave.StatusPending {
		return leave.ErrCannotCancel
	}

	removed, err := s.leaveRepo.DeletePending(ctx, id, caller.StaffID)
	if err != nil {
		return fmt.Errorf("failed to cancel leave request: %w", err)
	}
	if !removed {
		// Decided between the read and the delete.
		return leave.ErrCannotCancel
	}
	return nil
}

// Decide implements leave.LeaveService.
func (s *LeaveServiceImpl) Decide(ctx context.Context, caller identity.Caller, req leave.DecideLeaveRequest) (leave.LeaveResponse, error) {
	if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	updated, err := s.leaveRepo.UpdateStatus(ctx, req.ID, req.Status, caller.StaffID, s.now())
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to decide leave request: %w", err)
	}

	slog.Info("leave decided", "id", updated.ID, "status", updated.Status, "by", caller.EmployeeCode)
	return leave.NewLeaveResponse(updated), nil
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, caller identity.Caller) ([]leave.LeaveResponse, error) {
	if caller.StaffID == "" {
		return nil, identity.ErrUnauthenticated
	}

	list, err := s.leaveRepo.ListByStaff(ctx, caller.StaffID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	return leave.NewLeaveResponses(list), nil
}

// ListAll implements leave.LeaveService.
func (s *LeaveServiceImpl) ListAll(ctx context.Context, caller identity.Caller) ([]leave.LeaveResponse, error) {
	if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
		return nil, err
	}

	list, err := s.leaveRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	return leave.NewLeaveResponses(list), nil
}

// ExportMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ExportMine(ctx context.Context, caller identity.Caller) (export.File, error) {
	if caller.StaffID == "" {
		return export.File{}, identity.ErrUnauthenticated
	}

	list, err := s.leaveRepo.ListByStaffForExport(ctx, caller.StaffID)
	if err != nil {
		return export.File{}, fmt.Errorf("failed to list leaves for export: %w", err)
	}

	table := export.Table{Headers: []string{"start_date", "end_date", "reason", "status"}}
	for _, l := range list {
		table.Rows = append(table.Rows, []string{
			l.StartDate.Format(leave.DateLayout),
			l.EndDate.Format(leave.DateLayout),
			l.Reason,
			string(l.Status),
		})
	}
	return export.CSV("leave_report.csv", table)
}

// TakeNotifications implements leave.LeaveService.
func (s *LeaveServiceImpl) TakeNotifications(ctx context.Context, caller identity.Caller) ([]leave.LeaveResponse, error) {
	if caller.StaffID == "" {
		return nil, identity.ErrUnauthenticated
	}

	list, err := s.leaveRepo.TakeNotifications(ctx, caller.StaffID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leave notifications: %w", err)
	}
	return leave.NewLeaveResponses(list), nil
}
