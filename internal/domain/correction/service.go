package correction

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

type CorrectionService interface {
	Submit(ctx context.Context, caller identity.Caller, req SubmitCorrectionRequest) (CorrectionResponse, error)
	ListAll(ctx context.Context, caller identity.Caller) ([]CorrectionResponse, error)
	ListMine(ctx context.Context, caller identity.Caller) ([]CorrectionResponse, error)

	// Decide records the admin decision; approval writes the requested
	// times to the attendance ledger in the same transaction.
	Decide(ctx context.Context, caller identity.Caller, req DecideCorrectionRequest) (CorrectionResponse, error)
}
