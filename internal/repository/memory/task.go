package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

type taskRepository struct{ *Store }

func (s *Store) Tasks() task.TaskRepository { return taskRepository{s} }

func (r taskRepository) Create(ctx context.Context, t task.Task) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID, t.CreatedAt = r.nextID("task")
	t.EmployeeName = nil
	r.state.tasks[t.ID] = t
	return t, nil
}

func (r taskRepository) list(match func(task.Task) bool) []task.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []task.Task
	for _, t := range r.state.tasks {
		if match(t) {
			t.EmployeeName, _ = r.staffName(t.StaffID)
			list = append(list, t)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func (r taskRepository) ListByStaff(ctx context.Context, staffID string) ([]task.Task, error) {
	return r.list(func(t task.Task) bool { return t.StaffID == staffID }), nil
}

func (r taskRepository) ListAll(ctx context.Context) ([]task.Task, error) {
	return r.list(func(task.Task) bool { return true }), nil
}

func (r taskRepository) UpdateStatus(ctx context.Context, id, staffID string, status task.Status, completedAt *time.Time) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.state.tasks[id]
	if !ok || t.StaffID != staffID {
		return task.Task{}, task.ErrTaskNotFound
	}
	t.Status = status
	t.CompletedAt = completedAt
	r.state.tasks[id] = t
	return t, nil
}

func (r taskRepository) CountsByStaff(ctx context.Context) ([]task.Counts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byStaff := map[string]*task.Counts{}
	var out []*task.Counts
	for _, m := range r.state.staff {
		if m.Role != identity.RoleEmployee {
			continue
		}
		c := &task.Counts{StaffID: m.ID, EmployeeCode: m.EmployeeCode, EmployeeName: m.Name}
		byStaff[m.ID] = c
		out = append(out, c)
	}
	for _, t := range r.state.tasks {
		c, ok := byStaff[t.StaffID]
		if !ok {
			continue
		}
		c.Total++
		switch t.Status {
		case task.StatusCompleted:
			c.Completed++
		case task.StatusInProgress:
			c.InProgress++
		case task.StatusPending:
			c.Pending++
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeName < out[j].EmployeeName })
	counts := make([]task.Counts, len(out))
	for i, c := range out {
		counts[i] = *c
	}
	return counts, nil
}
