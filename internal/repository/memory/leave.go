package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
)

type leaveRepository struct{ *Store }

func (s *Store) Leaves() leave.LeaveRequestRepository { return leaveRepository{s} }

func (r leaveRepository) Create(ctx context.Context, l leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID, l.CreatedAt = r.nextID("leave")
	l.EmployeeName = nil
	r.state.leaves[l.ID] = l
	return l, nil
}

func (r leaveRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.state.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return l, nil
}

func (r leaveRepository) CountByStartBetween(ctx context.Context, staffID string, from, to time.Time, statuses []leave.Status) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fromDay, toDay := from.Format(leave.DateLayout), to.Format(leave.DateLayout)
	n := 0
	for _, l := range r.state.leaves {
		day := l.StartDate.Format(leave.DateLayout)
		if l.StaffID == staffID && day >= fromDay && day <= toDay && slices.Contains(statuses, l.Status) {
			n++
		}
	}
	return n, nil
}

func (r leaveRepository) collect(match func(leave.LeaveRequest) bool, less func(a, b leave.LeaveRequest) bool) []leave.LeaveRequest {
	var list []leave.LeaveRequest
	for _, l := range r.state.leaves {
		if match(l) {
			l.EmployeeName, _ = r.staffName(l.StaffID)
			list = append(list, l)
		}
	}
	sort.Slice(list, func(i, j int) bool { return less(list[i], list[j]) })
	return list
}

func newestCreated(a, b leave.LeaveRequest) bool { return a.CreatedAt.After(b.CreatedAt) }

func latestStart(a, b leave.LeaveRequest) bool {
	if !a.StartDate.Equal(b.StartDate) {
		return a.StartDate.After(b.StartDate)
	}
	return newestCreated(a, b)
}

func (r leaveRepository) ListByStaff(ctx context.Context, staffID string) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(l leave.LeaveRequest) bool { return l.StaffID == staffID }, newestCreated), nil
}

func (r leaveRepository) ListByStaffForExport(ctx context.Context, staffID string) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(l leave.LeaveRequest) bool { return l.StaffID == staffID }, latestStart), nil
}

func (r leaveRepository) ListAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(leave.LeaveRequest) bool { return true }, latestStart), nil
}

func (r leaveRepository) DeletePending(ctx context.Context, id, staffID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.state.leaves[id]
	if !ok || l.StaffID != staffID || l.Status != leave.StatusPending {
		return false, nil
	}
	delete(r.state.leaves, id)
	return true, nil
}

func (r leaveRepository) UpdateStatus(ctx context.Context, id string, status leave.Status, decidedBy string, decidedAt time.Time) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.state.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if l.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	l.Status = status
	l.Notification = true
	l.DecidedBy = &decidedBy
	l.DecidedAt = &decidedAt
	r.state.leaves[id] = l
	return l, nil
}

func (r leaveRepository) TakeNotifications(ctx context.Context, staffID string) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.collect(func(l leave.LeaveRequest) bool { return l.StaffID == staffID && l.Notification }, newestCreated)
	for _, l := range list {
		stored := r.state.leaves[l.ID]
		stored.Notification = false
		r.state.leaves[l.ID] = stored
	}
	return list, nil
}
