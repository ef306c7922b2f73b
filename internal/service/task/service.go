package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

type TaskServiceImpl struct {
	taskRepo  task.TaskRepository
	staffRepo staff.StaffRepository
	now       func() time.Time
}

func NewTaskService(taskRepo task.TaskRepository, staffRepo staff.StaffRepository) task.TaskService {
	return &TaskServiceImpl{taskRepo: taskRepo, staffRepo: staffRepo, now: time.Now}
}

// ListMine implements task.TaskService.
func (s *TaskServiceImpl) ListMine(ctx context.Context, caller identity.Caller) ([]task.TaskResponse, error) {
	if caller.StaffID == "" {
		return nil, identity.ErrUnauthenticated
	}

	list, err := s.taskRepo.ListByStaff(ctx, caller.StaffID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return task.NewTaskResponses(list), nil
}

// CreateMine implements task.TaskService.
func (s *TaskServiceImpl) CreateMine(ctx context.Context, caller identity.Caller, req task.CreateTaskRequest) (task.TaskResponse, error) {
	if caller.StaffID == "" {
		return task.TaskResponse{}, identity.ErrUnauthenticated
	}
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	created, err := s.taskRepo.Create(ctx, task.Task{
		StaffID:      caller.StaffID,
		EmployeeCode: caller.EmployeeCode,
		Title:        req.Title,
		Description:  req.Description,
		Status:       task.StatusPending,
	})
	if err != nil {
		return task.TaskResponse{}, fmt.Errorf("failed to create task: %w", err)
	}
	return task.NewTaskResponse(created), nil
}

// UpdateStatus implements task.TaskService.
func (s *TaskServiceImpl) UpdateStatus(ctx context.Context, caller identity.Caller, req task.UpdateTaskStatusRequest) (task.TaskResponse, error) {
	if caller.StaffID == "" {
		return task.TaskResponse{}, identity.ErrUnauthenticated
	}
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	var completedAt *time.Time
	if req.Status == task.StatusCompleted {
		now := s.now()
		completedAt = &now
	}

	updated, err := s.taskRepo.UpdateStatus(ctx, req.ID, caller.StaffID, req.Status, completedAt)
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			return task.TaskResponse{}, err
		}
		return task.TaskResponse{}, fmt.Errorf("failed to update task: %w", err)
	}
	return task.NewTaskResponse(updated), nil
}

// ListAll implements task.TaskService.
func (s *TaskServiceImpl) ListAll(ctx context.Context, caller identity.Caller) ([]task.TaskResponse, error) {
	if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
		return nil, err
	}

	list, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return task.NewTaskResponses(list), nil
}

// Assign implements task.TaskService.
func (s *TaskServiceImpl) Assign(ctx context.Context, caller identity.Caller, req task.AssignTaskRequest) (task.TaskResponse, error) {
	if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
		return task.TaskResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	assignee, err := s.staffRepo.GetByEmployeeCode(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return task.TaskResponse{}, err
		}
		return task.TaskResponse{}, fmt.Errorf("failed to get assignee: %w", err)
	}

	assignedBy := caller.StaffID
	created, err := s.taskRepo.Create(ctx, task.Task{
		StaffID:      assignee.ID,
		EmployeeCode: assignee.EmployeeCode,
		Title:        req.Title,
		Description:  req.Description,
		Status:       task.StatusPending,
		AssignedBy:   &assignedBy,
	})
	if err != nil {
		return task.TaskResponse{}, fmt.Errorf("failed to assign task: %w", err)
	}
	created.EmployeeName = &assignee.Name
	return task.NewTaskResponse(created), nil
}

// Overview implements task.TaskService.
func (s *TaskServiceImpl) Overview(ctx context.Context, caller identity.Caller) ([]task.OverviewResponse, error) {
	if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
		return nil, err
	}

	counts, err := s.taskRepo.CountsByStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load task overview: %w", err)
	}

	out := make([]task.OverviewResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, task.OverviewResponse{
			EmployeeID:      c.EmployeeCode,
			EmployeeName:    c.EmployeeName,
			TotalTasks:      c.Total,
			CompletedTasks:  c.Completed,
			InProgressTasks: c.InProgress,
			PendingTasks:    c.Pending,
		})
	}
	return out, nil
}
