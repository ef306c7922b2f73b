package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

// SettingsHandler serves admin settings and the read-only address lists
// used by clients to show whether they are on an allowed network.
type SettingsHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	WiFiIPs(w http.ResponseWriter, r *http.Request)
	DeviceIPs(w http.ResponseWriter, r *http.Request)
	ClientIP(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{
		settingsService: settingsService,
	}
}

func (h *settingsHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.GetSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *settingsHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := identity.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req settings.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update settings decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingsService.UpdateSettings(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Admin settings updated", "employee_code", caller.EmployeeCode)
	response.SuccessWithMessage(w, "Settings updated successfully", result)
}

func (h *settingsHandlerImpl) WiFiIPs(w http.ResponseWriter, r *http.Request) {
	ips, err := h.settingsService.AllowedWiFiIPs(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, map[string][]string{"wifi_ips": ips})
}

func (h *settingsHandlerImpl) DeviceIPs(w http.ResponseWriter, r *http.Request) {
	ips, err := h.settingsService.AllowedDeviceIPs(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, map[string][]string{"device_ips": ips})
}

func (h *settingsHandlerImpl) ClientIP(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{"ip": middleware.ClientIP(r)})
}
