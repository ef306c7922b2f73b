package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
)

type attendanceRepository struct{ *Store }

func (s *Store) Attendance() attendance.AttendanceRepository { return attendanceRepository{s} }

func (r attendanceRepository) GetByStaffAndDate(ctx context.Context, staffID string, date string) (*attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.state.attendance {
		if rec.StaffID == staffID && rec.Date == date {
			cp := rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.state.attendance[id]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return rec, nil
}

func (r attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.state.attendance {
		if existing.StaffID == rec.StaffID && existing.Date == rec.Date {
			return attendance.Record{}, attendance.ErrRecordExists
		}
	}
	rec.ID, rec.CreatedAt = r.nextID("att")
	rec.UpdatedAt = rec.CreatedAt
	rec.EmployeeName = nil
	r.state.attendance[rec.ID] = rec
	return rec, nil
}

func (r attendanceRepository) Patch(ctx context.Context, id string, patch attendance.RecordPatch) (attendance.Record, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.state.attendance[id]
	if !ok {
		return attendance.Record{}, "", attendance.ErrRecordNotFound
	}
	if patch.OpenOnly && current.PunchOut != nil {
		return attendance.Record{}, "", attendance.ErrAlreadyPunchedOut
	}

	next := current
	if patch.PunchIn != nil {
		next.PunchIn = patch.PunchIn
	}
	if patch.PunchOut != nil {
		next.PunchOut = patch.PunchOut
	}
	if patch.IPAddress != nil {
		next.IPAddress = *patch.IPAddress
	}
	if patch.PhotoPath != nil {
		next.PhotoPath = patch.PhotoPath
	}
	// Mirrors the attendance_punch_order check.
	if next.PunchIn != nil && next.PunchOut != nil && !next.PunchIn.Before(*next.PunchOut) {
		return attendance.Record{}, "", attendance.ErrPunchOrder
	}

	_, next.UpdatedAt = r.nextID("att")
	r.state.attendance[id] = next
	return next, replacedPhoto(current.PhotoPath, patch.PhotoPath), nil
}

func replacedPhoto(stored, incoming *string) string {
	if stored == nil || incoming == nil || *stored == *incoming {
		return ""
	}
	return *stored
}

func (r attendanceRepository) ListAll(ctx context.Context) ([]attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]attendance.Record, 0, len(r.state.attendance))
	for _, rec := range r.state.attendance {
		rec.EmployeeName, _ = r.staffName(rec.StaffID)
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date > list[j].Date
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r attendanceRepository) ListByStaffBetween(ctx context.Context, staffID string, from, to string) ([]attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []attendance.Record
	for _, rec := range r.state.attendance {
		if rec.StaffID == staffID && rec.Date >= from && rec.Date <= to {
			list = append(list, rec)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date < list[j].Date })
	return list, nil
}
