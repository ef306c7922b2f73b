package http

import (
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/analytics"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

type AnalyticsHandler interface {
	EmployeeStats(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsService analytics.AnalyticsService
}

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService) AnalyticsHandler {
	return &analyticsHandlerImpl{analyticsService: analyticsService}
}

// EmployeeStats implements AnalyticsHandler.
func (h *analyticsHandlerImpl) EmployeeStats(w http.ResponseWriter, r *http.Request) {
	caller, err := identity.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.analyticsService.EmployeeStats(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
