package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
)

// ledgerAttempts bounds create-then-merge retries when a concurrent
// writer creates the day's record first.
const ledgerAttempts = 3

type LedgerImpl struct {
	attendanceRepo attendance.AttendanceRepository
}

func NewLedger(attendanceRepo attendance.AttendanceRepository) attendance.Ledger {
	return &LedgerImpl{attendanceRepo: attendanceRepo}
}

// Snapshot implements attendance.Ledger.
func (l *LedgerImpl) Snapshot(ctx context.Context, staffID string, date string) (*attendance.Record, error) {
	record, err := l.attendanceRepo.GetByStaffAndDate(ctx, staffID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to read attendance snapshot: %w", err)
	}
	return record, nil
}

// ApplyCorrection implements attendance.Ledger. Only the supplied times
// are written, so a punch landing between the read and the write is kept.
// No photo is required when the record is created here.
func (l *LedgerImpl) ApplyCorrection(ctx context.Context, staffID, employeeCode, date string, punchIn, punchOut *time.Time) (attendance.Record, error) {
	if punchIn == nil && punchOut == nil {
		return attendance.Record{}, fmt.Errorf("correction for %s carries no punch times", date)
	}

	for attempt := 0; attempt < ledgerAttempts; attempt++ {
		existing, err := l.attendanceRepo.GetByStaffAndDate(ctx, staffID, date)
		if err != nil {
			return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
		}

		if existing == nil {
			record := attendance.Record{
				StaffID:      staffID,
				EmployeeCode: employeeCode,
				Date:         date,
				PunchIn:      punchIn,
				PunchOut:     punchOut,
			}
			if err := checkOrder(record); err != nil {
				return attendance.Record{}, err
			}

			created, err := l.attendanceRepo.Create(ctx, record)
			if errors.Is(err, attendance.ErrRecordExists) {
				continue
			}
			if err != nil {
				return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
			}
			return created, nil
		}

		updated, _, err := l.attendanceRepo.Patch(ctx, existing.ID, attendance.RecordPatch{
			PunchIn:  punchIn,
			PunchOut: punchOut,
		})
		if err != nil {
			if errors.Is(err, attendance.ErrPunchOrder) {
				return attendance.Record{}, err
			}
			return attendance.Record{}, fmt.Errorf("failed to update attendance record: %w", err)
		}
		return updated, nil
	}

	return attendance.Record{}, attendance.ErrPunchConflict
}

func checkOrder(r attendance.Record) error {
	if r.PunchIn != nil && r.PunchOut != nil && !r.PunchIn.Before(*r.PunchOut) {
		return attendance.ErrPunchOrder
	}
	return nil
}
