package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// CountByStartBetween counts the staff member's requests in the given
	// statuses whose start date lies in [from, to].
	CountByStartBetween(ctx context.Context, staffID string, from, to time.Time, statuses []Status) (int, error)

	// ListByStaff orders by created_at desc.
	ListByStaff(ctx context.Context, staffID string) ([]LeaveRequest, error)
	// ListByStaffForExport orders by start_date desc.
	ListByStaffForExport(ctx context.Context, staffID string) ([]LeaveRequest, error)
	// ListAll joins the staff name and orders by start_date desc.
	ListAll(ctx context.Context) ([]LeaveRequest, error)

	// DeletePending removes the owner's request only while pending and
	// reports whether a row was removed.
	DeletePending(ctx context.Context, id, staffID string) (bool, error)

	// UpdateStatus decides a pending request and raises its notification
	// flag. It returns ErrLeaveRequestAlreadyProcessed when not pending.
	UpdateStatus(ctx context.Context, id string, status Status, decidedBy string, decidedAt time.Time) (LeaveRequest, error)

	// TakeNotifications returns the flagged requests and clears their flags
	// in one statement.
	TakeNotifications(ctx context.Context, staffID string) ([]LeaveRequest, error)
}
