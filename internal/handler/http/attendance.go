package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/file"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Punch(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	Photo(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	fileService       file.FileService
	loc               *time.Location
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, fileService file.FileService, loc *time.Location) AttendanceHandler {
	if loc == nil {
		loc = time.Local
	}
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		fileService:       fileService,
		loc:               loc,
	}
}

// Punch implements AttendanceHandler.
func (h *attendanceHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	caller, err := identity.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.PunchRequest
	req.Addresses = middleware.ObservedAddresses(r)

	// Denied callers are turned away before the photo is decoded or stored.
	if _, err := h.attendanceService.Admit(r.Context(), caller, req.Addresses); err != nil {
		response.HandleError(w, err)
		return
	}

	// The photo is optional on punch-out, so a plain request body is accepted too.
	if isMultipart(r) {
		if err := r.ParseMultipartForm(file.MaxPhotoSize); err != nil {
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}

		photo, header, err := r.FormFile("photo")
		switch {
		case err == nil:
			defer photo.Close()
			path, err := h.fileService.UploadPunchPhoto(r.Context(), caller.EmployeeCode, time.Now().In(h.loc), photo, header.Filename)
			if err != nil {
				slog.Error("Failed to store punch photo", "error", err, "employee_code", caller.EmployeeCode)
				response.HandleError(w, err)
				return
			}
			req.PhotoPath = &path
		case errors.Is(err, http.ErrMissingFile):
		default:
			slog.Error("Failed to get file from form", "error", err)
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
	}

	result, err := h.attendanceService.Punch(r.Context(), caller, req)
	if err != nil {
		if req.PhotoPath != nil {
			if delErr := h.fileService.DeleteFile(r.Context(), *req.PhotoPath); delErr != nil {
				slog.Warn("Failed to remove orphaned punch photo", "path", *req.PhotoPath, "error", delErr)
			}
		}
		response.HandleError(w, err)
		return
	}

	if result.ReplacedPhotoPath != "" {
		if err := h.fileService.DeleteFile(r.Context(), result.ReplacedPhotoPath); err != nil {
			slog.Warn("Failed to remove replaced punch photo", "path", result.ReplacedPhotoPath, "error", err)
		}
	}

	response.Success(w, result)
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// Status implements AttendanceHandler.
func (h *attendanceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	caller, err := identity.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	status, err := h.attendanceService.Status(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// ListRecords implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	caller, err := identity.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.ListRecords(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// Export implements AttendanceHandler.
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	caller, err := identity.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	f, err := h.attendanceService.Export(r.Context(), caller, r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeFile(w, f)
}

// writeFile streams a rendered export as an attachment.
func writeFile(w http.ResponseWriter, f export.File) {
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(f.Content); err != nil {
		slog.Error("Failed to write export", "filename", f.Filename, "error", err)
	}
}

// Photo implements AttendanceHandler.
func (h *attendanceHandlerImpl) Photo(w http.ResponseWriter, r *http.Request) {
	caller, err := identity.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	path, err := h.attendanceService.PhotoPath(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rc, err := h.fileService.OpenPunchPhoto(r.Context(), path)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("Failed to stream punch photo", "path", path, "error", err)
	}
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	caller, err := identity.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().In(h.loc).Format("2006-01")
	}

	summary, err := h.attendanceService.Summary(r.Context(), caller, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}
