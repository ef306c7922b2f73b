package leave

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

type LeaveService interface {
	Apply(ctx context.Context, caller identity.Caller, req ApplyLeaveRequest) (ApplyLeaveResponse, error)
	Cancel(ctx context.Context, caller identity.Caller, id string) error
	Decide(ctx context.Context, caller identity.Caller, req DecideLeaveRequest) (LeaveResponse, error)

	ListMine(ctx context.Context, caller identity.Caller) ([]LeaveResponse, error)
	ListAll(ctx context.Context, caller identity.Caller) ([]LeaveResponse, error)
	ExportMine(ctx context.Context, caller identity.Caller) (export.File, error)

	// TakeNotifications is a read that clears what it returns.
	TakeNotifications(ctx context.Context, caller identity.Caller) ([]LeaveResponse, error)
}
