package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/admission"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

const notAvailable = "N/A"

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	settingsRepo   settings.SettingsRepository
	loc            *time.Location
	now            func() time.Time
}

// NewAttendanceService derives calendar days in loc.
func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	settingsRepo settings.SettingsRepository,
	loc *time.Location,
) attendance.AttendanceService {
	return newAttendanceService(attendanceRepo, settingsRepo, loc, time.Now)
}

func newAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	settingsRepo settings.SettingsRepository,
	loc *time.Location,
	now func() time.Time,
) *AttendanceServiceImpl {
	if loc == nil {
		loc = time.Local
	}
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		settingsRepo:   settingsRepo,
		loc:            loc,
		now:            now,
	}
}

// admit runs the network/device check. Settings are not read when a
// loopback address is present.
func (s *AttendanceServiceImpl) admit(ctx context.Context, addresses []string) (admission.Result, error) {
	var current *settings.AdminSettings
	if !admission.HasLoopback(addresses) {
		var err error
		current, err = s.settingsRepo.Get(ctx)
		if err != nil {
			return admission.Result{}, fmt.Errorf("failed to get admin settings: %w", err)
		}
	}

	result, err := admission.Check(addresses, current)
	if err != nil {
		return admission.Result{}, err
	}
	if !result.Allowed {
		return result, &admission.DeniedError{Result: result}
	}
	return result, nil
}

// Admit implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Admit(ctx context.Context, caller identity.Caller, addresses []string) (admission.Result, error) {
	if caller.StaffID == "" {
		return admission.Result{}, identity.ErrUnauthenticated
	}

	result, err := s.admit(ctx, addresses)
	if err != nil {
		var denied *admission.DeniedError
		if errors.As(err, &denied) {
			slog.Warn("punch denied by admission check",
				"employee_code", caller.EmployeeCode,
				"client_ip", denied.Result.MatchedAddress,
				"ip_allowed", denied.Result.IPAllowed,
				"device_allowed", denied.Result.DeviceAllowed,
			)
		}
		return result, err
	}
	return result, nil
}

// Punch implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Punch(ctx context.Context, caller identity.Caller, req attendance.PunchRequest) (attendance.PunchResponse, error) {
	result, err := s.Admit(ctx, caller, req.Addresses)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	// The date key is derived once and used for both lookup and creation.
	now := s.now()
	date := attendance.DateOf(now, s.loc)

	record, err := s.attendanceRepo.GetByStaffAndDate(ctx, caller.StaffID, date)
	if err != nil {
		return attendance.PunchResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	switch attendance.StateOf(record) {
	case attendance.StateNoRecord:
		if req.PhotoPath == nil || *req.PhotoPath == "" {
			return attendance.PunchResponse{}, attendance.ErrPhotoRequired
		}

		_, err := s.attendanceRepo.Create(ctx, attendance.Record{
			StaffID:      caller.StaffID,
			EmployeeCode: caller.EmployeeCode,
			Date:         date,
			PunchIn:      &now,
			IPAddress:    result.MatchedAddress,
			PhotoPath:    req.PhotoPath,
		})
		if err != nil {
			if errors.Is(err, attendance.ErrRecordExists) {
				return attendance.PunchResponse{}, attendance.ErrPunchConflict
			}
			return attendance.PunchResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
		}

		slog.Info("punch in recorded", "employee_code", caller.EmployeeCode, "date", date, "ip", result.MatchedAddress)
		return punchResponse(attendance.PunchIn, "Punch In successful", date, now), nil

	case attendance.StatePunchedIn:
		if record.PunchIn != nil && !record.PunchIn.Before(now) {
			return attendance.PunchResponse{}, attendance.ErrPunchOrder
		}

		patch := attendance.RecordPatch{
			PunchOut:  &now,
			IPAddress: &result.MatchedAddress,
			OpenOnly:  true,
		}
		if req.PhotoPath != nil && *req.PhotoPath != "" {
			patch.PhotoPath = req.PhotoPath
		}

		_, replaced, err := s.attendanceRepo.Patch(ctx, record.ID, patch)
		if err != nil {
			if errors.Is(err, attendance.ErrAlreadyPunchedOut) || errors.Is(err, attendance.ErrPunchOrder) {
				return attendance.PunchResponse{}, err
			}
			return attendance.PunchResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
		}

		slog.Info("punch out recorded", "employee_code", caller.EmployeeCode, "date", date, "ip", result.MatchedAddress)
		resp := punchResponse(attendance.PunchOut, "Punch Out successful", date, now)
		resp.ReplacedPhotoPath = replaced
		return resp, nil

	default:
		return attendance.PunchResponse{}, attendance.ErrAlreadyPunchedOut
	}
}

func punchResponse(kind attendance.PunchType, message, date string, at time.Time) attendance.PunchResponse {
	return attendance.PunchResponse{
		Type:    kind,
		Message: message,
		Date:    date,
		Time:    at.Format(time.RFC3339),
	}
}

// Status implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Status(ctx context.Context, caller identity.Caller) (attendance.StatusResponse, error) {
	if caller.StaffID == "" {
		return attendance.StatusResponse{}, identity.ErrUnauthenticated
	}

	date := attendance.DateOf(s.now(), s.loc)
	record, err := s.attendanceRepo.GetByStaffAndDate(ctx, caller.StaffID, date)
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to get attendance status: %w", err)
	}

	resp := attendance.StatusResponse{Date: date}
	if record != nil {
		resp.PunchIn = attendance.FormatTimestamp(record.PunchIn)
		resp.PunchOut = attendance.FormatTimestamp(record.PunchOut)
	}
	return resp, nil
}

// ListRecords implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListRecords(ctx context.Context, caller identity.Caller) ([]attendance.RecordResponse, error) {
	if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	out := make([]attendance.RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, attendance.NewRecordResponse(r))
	}
	return out, nil
}

// Export implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Export(ctx context.Context, caller identity.Caller, format string) (export.File, error) {
	if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
		return export.File{}, err
	}
	if format != "" && format != export.FormatCSV && format != export.FormatXLSX {
		return export.File{}, attendance.ErrInvalidExportFormat
	}

	records, err := s.attendanceRepo.ListAll(ctx)
	if err != nil {
		return export.File{}, fmt.Errorf("failed to list attendance records: %w", err)
	}
	if len(records) == 0 {
		return export.File{}, attendance.ErrNoRecords
	}

	table := export.Table{Headers: []string{"id", "employee_id", "date", "punch_in", "punch_out", "ip"}}
	for _, r := range records {
		code := r.EmployeeCode
		if code == "" {
			code = notAvailable
		}
		table.Rows = append(table.Rows, []string{
			r.ID, code, r.Date, formatCell(r.PunchIn), formatCell(r.PunchOut), r.IPAddress,
		})
	}

	return export.Render(format, "attendance", "Attendance", table)
}

func formatCell(t *time.Time) string {
	if v := attendance.FormatTimestamp(t); v != nil {
		return *v
	}
	return ""
}

// PhotoPath implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) PhotoPath(ctx context.Context, caller identity.Caller, id string) (string, error) {
	if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
		return "", err
	}

	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return "", attendance.ErrPhotoNotFound
		}
		return "", fmt.Errorf("failed to get attendance record: %w", err)
	}
	if record.PhotoPath == nil || *record.PhotoPath == "" {
		return "", attendance.ErrPhotoNotFound
	}
	return *record.PhotoPath, nil
}

// Summary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Summary(ctx context.Context, caller identity.Caller, month string) (attendance.SummaryResponse, error) {
	if caller.StaffID == "" {
		return attendance.SummaryResponse{}, identity.ErrUnauthenticated
	}
	if _, ok := validator.IsValidMonth(month); !ok {
		return attendance.SummaryResponse{}, validator.ValidationErrors{{
			Field:   "month",
			Message: attendance.ErrInvalidSummaryPeriod.Error(),
		}}
	}

	first, _ := time.ParseInLocation("2006-01", month, s.loc)
	last := first.AddDate(0, 1, -1)

	records, err := s.attendanceRepo.ListByStaffBetween(ctx, caller.StaffID,
		first.Format(attendance.DateLayout), last.Format(attendance.DateLayout))
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to list attendance for summary: %w", err)
	}

	resp := attendance.SummaryResponse{Month: month, Days: make([]attendance.DailyHours, 0, len(records))}
	var total float64
	for _, r := range records {
		hours := r.WorkedHours()
		total += hours
		resp.Days = append(resp.Days, attendance.DailyHours{
			Date:     r.Date,
			PunchIn:  attendance.FormatTimestamp(r.PunchIn),
			PunchOut: attendance.FormatTimestamp(r.PunchOut),
			Hours:    hours,
		})
	}
	resp.TotalHours = math.Round(total*100) / 100
	return resp, nil
}
