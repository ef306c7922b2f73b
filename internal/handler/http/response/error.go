package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/admission"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Admission denial carries its diagnostics
	var denied *admission.DeniedError
	if errors.As(err, &denied) {
		ForbiddenWithDetails(w, "Access denied. Not on allowed WiFi or device.", denied.Result)
		return
	}

	switch {
	// Identity
	case errors.Is(err, identity.ErrUnauthenticated):
		Unauthorized(w, "Unauthorized")
	case errors.Is(err, identity.ErrForbidden):
		Forbidden(w, "Admins only")

	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid credentials")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, auth.ErrInvalidOTP):
		BadRequest(w, "Invalid or expired OTP", nil)
	case errors.Is(err, auth.ErrOAuthNotConfigured):
		NotFound(w, "Google sign-in is not configured")
	case errors.Is(err, auth.ErrGoogleEmailUnknown), errors.Is(err, auth.ErrGoogleEmailNotValid):
		Unauthorized(w, err.Error())

	// Settings
	case errors.Is(err, settings.ErrSettingsNotConfigured):
		InternalServerError(w, "Admin settings not configured")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrPhotoRequired):
		BadRequest(w, "Photo required", nil)
	case errors.Is(err, attendance.ErrAlreadyPunchedOut):
		Conflict(w, "Already punched in and out today")
	case errors.Is(err, attendance.ErrPunchConflict):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrPunchOrder):
		BadRequest(w, "Punch-in must be before punch-out", nil)
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrNoRecords):
		NotFound(w, "No attendance records found")
	case errors.Is(err, attendance.ErrPhotoNotFound), errors.Is(err, storage.ErrNotFound):
		NotFound(w, "Photo not found")
	case errors.Is(err, attendance.ErrInvalidExportFormat), errors.Is(err, attendance.ErrInvalidSummaryPeriod):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, file.ErrInvalidPhotoType), errors.Is(err, file.ErrPhotoTooLarge):
		BadRequest(w, err.Error(), nil)

	// Correction domain errors
	case errors.Is(err, correction.ErrCorrectionNotFound):
		NotFound(w, "Correction not found")
	case errors.Is(err, correction.ErrAlreadyDecided):
		Conflict(w, "Correction has already been decided")
	case errors.Is(err, correction.ErrInvalidDecision):
		BadRequest(w, err.Error(), nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave not found")
	case errors.Is(err, leave.ErrYearlyLimitReached):
		BadRequest(w, "Leave limit (20/year) reached", nil)
	case errors.Is(err, leave.ErrCannotCancel):
		Conflict(w, "Cannot cancel this leave")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")

	// Task domain errors
	case errors.Is(err, task.ErrTaskNotFound):
		NotFound(w, "Task not found or unauthorized")
	case errors.Is(err, task.ErrInvalidStatus):
		BadRequest(w, "Invalid status", nil)

	// Staff domain errors
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, staff.ErrEmployeeCodeExists):
		Conflict(w, "Employee ID already exists")
	case errors.Is(err, staff.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, staff.ErrCannotDeleteSelf):
		BadRequest(w, "Cannot delete your own account", nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
