package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const taskColumns = `t.id, t.staff_id, t.employee_code, t.title, t.description, t.status, t.assigned_by, t.created_at, t.completed_at`

type taskRepositoryImpl struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.TaskRepository {
	return &taskRepositoryImpl{db: db}
}

func scanTask(row pgx.Row, extra ...interface{}) (task.Task, error) {
	var t task.Task
	dest := []interface{}{
		&t.ID,
		&t.StaffID,
		&t.EmployeeCode,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.AssignedBy,
		&t.CreatedAt,
		&t.CompletedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, err
	}
	return t, nil
}

// Create implements task.TaskRepository.
func (r *taskRepositoryImpl) Create(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tasks AS t (staff_id, employee_code, title, description, status, assigned_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + taskColumns

	created, err := scanTask(q.QueryRow(ctx, query, t.StaffID, t.EmployeeCode, t.Title, t.Description, t.Status, t.AssignedBy))
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

func (r *taskRepositoryImpl) list(ctx context.Context, where string, args ...interface{}) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + taskColumns + `, s.name
		FROM tasks t
		LEFT JOIN staff s ON s.id = t.staff_id
		` + where + `
		ORDER BY t.created_at DESC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		var name *string
		t, err := scanTask(rows, &name)
		if err != nil {
			return nil, err
		}
		t.EmployeeName = name
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ListByStaff implements task.TaskRepository.
func (r *taskRepositoryImpl) ListByStaff(ctx context.Context, staffID string) ([]task.Task, error) {
	return r.list(ctx, "WHERE t.staff_id = $1", staffID)
}

// ListAll implements task.TaskRepository.
func (r *taskRepositoryImpl) ListAll(ctx context.Context) ([]task.Task, error) {
	return r.list(ctx, "")
}

// UpdateStatus implements task.TaskRepository.
func (r *taskRepositoryImpl) UpdateStatus(ctx context.Context, id, staffID string, status task.Status, completedAt *time.Time) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tasks AS t
		SET status = $1, completed_at = $2
		WHERE t.id = $3 AND t.staff_id = $4
		RETURNING ` + taskColumns

	return scanTask(q.QueryRow(ctx, query, status, completedAt, id, staffID))
}

// CountsByStaff implements task.TaskRepository.
func (r *taskRepositoryImpl) CountsByStaff(ctx context.Context) ([]task.Counts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			s.id, s.employee_code, s.name,
			COUNT(t.id),
			COUNT(*) FILTER (WHERE t.status = 'completed'),
			COUNT(*) FILTER (WHERE t.status = 'in progress'),
			COUNT(*) FILTER (WHERE t.status = 'pending')
		FROM staff s
		LEFT JOIN tasks t ON t.staff_id = s.id
		WHERE s.role = 'employee'
		GROUP BY s.id, s.employee_code, s.name
		ORDER BY s.name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	defer rows.Close()

	counts := []task.Counts{}
	for rows.Next() {
		var c task.Counts
		if err := rows.Scan(&c.StaffID, &c.EmployeeCode, &c.EmployeeName, &c.Total, &c.Completed, &c.InProgress, &c.Pending); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
