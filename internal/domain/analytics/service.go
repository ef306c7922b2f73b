package analytics

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

type AnalyticsService interface {
	// EmployeeStats aggregates the current month for every employee.
	EmployeeStats(ctx context.Context, caller identity.Caller) (AnalyticsResponse, error)
}
