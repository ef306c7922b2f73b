package task

import (
	"context"
	"time"
)

type TaskRepository interface {
	Create(ctx context.Context, t Task) (Task, error)
	ListByStaff(ctx context.Context, staffID string) ([]Task, error)
	ListAll(ctx context.Context) ([]Task, error)

	// UpdateStatus changes a task owned by staffID and returns ErrTaskNotFound otherwise.
	UpdateStatus(ctx context.Context, id, staffID string, status Status, completedAt *time.Time) (Task, error)

	// CountsByStaff covers every employee-role staff member, including those without tasks.
	CountsByStaff(ctx context.Context) ([]Counts, error)
}
