package correction

import (
	"context"
	"time"
)

type CorrectionRepository interface {
	Create(ctx context.Context, c Correction) (Correction, error)
	GetByID(ctx context.Context, id string) (Correction, error)

	// ListAll returns every correction with staff name and code, newest first.
	ListAll(ctx context.Context) ([]Correction, error)
	ListByStaff(ctx context.Context, staffID string) ([]Correction, error)

	// UpdateDecision transitions a pending correction. It returns
	// ErrAlreadyDecided when the row is no longer pending.
	UpdateDecision(ctx context.Context, id string, status Status, comment *string, decidedBy string, decidedAt time.Time) (Correction, error)
}
