package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/analytics"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

type analyticsRepository struct{ *Store }

func (s *Store) Analytics() analytics.AnalyticsRepository { return analyticsRepository{s} }

func (r analyticsRepository) ListEmployees(ctx context.Context) ([]analytics.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []analytics.Employee
	for _, m := range r.state.staff {
		if m.Role == identity.RoleEmployee {
			list = append(list, analytics.Employee{ID: m.ID, EmployeeCode: m.EmployeeCode, Name: m.Name})
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r analyticsRepository) AttendanceByStaff(ctx context.Context, from, to string) (map[string]analytics.AttendanceAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]analytics.AttendanceAggregate{}
	for _, rec := range r.state.attendance {
		if rec.Date < from || rec.Date > to || rec.PunchIn == nil || rec.PunchOut == nil {
			continue
		}
		agg := out[rec.StaffID]
		agg.PresentDays++
		agg.TotalMinutes += rec.PunchOut.Sub(*rec.PunchIn).Minutes()
		out[rec.StaffID] = agg
	}
	return out, nil
}

func (r analyticsRepository) LeaveCountsByStaff(ctx context.Context) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int{}
	for _, l := range r.state.leaves {
		out[l.StaffID]++
	}
	return out, nil
}

func (r analyticsRepository) TaskCountsByStaff(ctx context.Context) (map[string]analytics.TaskAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]analytics.TaskAggregate{}
	for _, t := range r.state.tasks {
		agg := out[t.StaffID]
		agg.Total++
		if t.Status == task.StatusCompleted {
			agg.Completed++
		}
		out[t.StaffID] = agg
	}
	return out, nil
}
