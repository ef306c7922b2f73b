package task

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

type TaskService interface {
	ListMine(ctx context.Context, caller identity.Caller) ([]TaskResponse, error)
	CreateMine(ctx context.Context, caller identity.Caller, req CreateTaskRequest) (TaskResponse, error)
	UpdateStatus(ctx context.Context, caller identity.Caller, req UpdateTaskStatusRequest) (TaskResponse, error)

	// Admin
	ListAll(ctx context.Context, caller identity.Caller) ([]TaskResponse, error)
	Assign(ctx context.Context, caller identity.Caller, req AssignTaskRequest) (TaskResponse, error)
	Overview(ctx context.Context, caller identity.Caller) ([]OverviewResponse, error)
}
