package attendance

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/admission"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

type AttendanceService interface {
	// Punch gates on the admission check and advances the caller's
	// state for today.
	Punch(ctx context.Context, caller identity.Caller, req PunchRequest) (PunchResponse, error)

	// Admit runs only the admission check, so a denied caller can be
	// turned away before any evidence is stored. Punch still checks again.
	Admit(ctx context.Context, caller identity.Caller, addresses []string) (admission.Result, error)

	// Status is never gated by the admission check.
	Status(ctx context.Context, caller identity.Caller) (StatusResponse, error)

	ListRecords(ctx context.Context, caller identity.Caller) ([]RecordResponse, error)
	Export(ctx context.Context, caller identity.Caller, format string) (export.File, error)

	// PhotoPath returns the stored evidence reference of a record.
	PhotoPath(ctx context.Context, caller identity.Caller, id string) (string, error)

	Summary(ctx context.Context, caller identity.Caller, month string) (SummaryResponse, error)
}
