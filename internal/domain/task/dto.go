package task

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r *CreateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{Field: "title", Message: "title is required"})
	}
	if validator.IsEmpty(r.Description) {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "description is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignTaskRequest struct {
	EmployeeID  string `json:"employee_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r *AssignTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}

	inner := CreateTaskRequest{Title: r.Title, Description: r.Description}
	if err := inner.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	r.Title, r.Description = inner.Title, inner.Description

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateTaskStatusRequest struct {
	ID     string `json:"-"`
	Status Status `json:"status"`
}

func (r *UpdateTaskStatusRequest) Validate() error {
	if !r.Status.IsValid() {
		return validator.ValidationErrors{{Field: "status", Message: ErrInvalidStatus.Error()}}
	}
	return nil
}

type TaskResponse struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employee_id"`
	Name        *string    `json:"name,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func NewTaskResponse(t Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		EmployeeID:  t.EmployeeCode,
		Name:        t.EmployeeName,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func NewTaskResponses(list []Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, NewTaskResponse(t))
	}
	return out
}

type OverviewResponse struct {
	EmployeeID      string `json:"employee_id"`
	EmployeeName    string `json:"employee_name"`
	TotalTasks      int    `json:"total_tasks"`
	CompletedTasks  int    `json:"completed_tasks"`
	InProgressTasks int    `json:"in_progress_tasks"`
	PendingTasks    int    `json:"pending_tasks"`
}
