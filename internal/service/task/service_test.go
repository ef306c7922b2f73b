package task

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*TaskServiceImpl, identity.Caller, identity.Caller, identity.Caller) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	mk := func(code, name string, role identity.Role) identity.Caller {
		m, err := store.Staff().Create(ctx, staff.Staff{EmployeeCode: code, Name: name, Email: code + "@x.test", Role: role})
		require.NoError(t, err)
		return m.Caller()
	}
	admin := mk("ADM001", "Boss", identity.RoleAdmin)
	ana := mk("EMP001", "Ana", identity.RoleEmployee)
	budi := mk("EMP002", "Budi", identity.RoleEmployee)

	svc := NewTaskService(store.Tasks(), store.Staff()).(*TaskServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC) }
	return svc, admin, ana, budi
}

func TestCreateMineAndUpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc, _, ana, budi := setup(t)

	created, err := svc.CreateMine(ctx, ana, task.CreateTaskRequest{Title: " Report ", Description: "weekly"})
	require.NoError(t, err)
	assert.Equal(t, "Report", created.Title)
	assert.Equal(t, task.StatusPending, created.Status)
	assert.Equal(t, "EMP001", created.EmployeeID)
	assert.Nil(t, created.CompletedAt)

	_, err = svc.UpdateStatus(ctx, budi, task.UpdateTaskStatusRequest{ID: created.ID, Status: task.StatusCompleted})
	assert.ErrorIs(t, err, task.ErrTaskNotFound)

	inProgress, err := svc.UpdateStatus(ctx, ana, task.UpdateTaskStatusRequest{ID: created.ID, Status: task.StatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, inProgress.Status)
	assert.Nil(t, inProgress.CompletedAt)

	done, err := svc.UpdateStatus(ctx, ana, task.UpdateTaskStatusRequest{ID: created.ID, Status: task.StatusCompleted})
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, 2024, done.CompletedAt.Year())

	_, err = svc.UpdateStatus(ctx, ana, task.UpdateTaskStatusRequest{ID: created.ID, Status: "archived"})
	assert.Error(t, err)
}

func TestCreateMine_Validation(t *testing.T) {
	svc, _, ana, _ := setup(t)
	_, err := svc.CreateMine(context.Background(), ana, task.CreateTaskRequest{Title: "  "})
	assert.Error(t, err)

	_, err = svc.CreateMine(context.Background(), identity.Caller{}, task.CreateTaskRequest{Title: "a", Description: "b"})
	assert.ErrorIs(t, err, identity.ErrUnauthenticated)
}

func TestAssignAndOverview(t *testing.T) {
	ctx := context.Background()
	svc, admin, ana, budi := setup(t)

	assigned, err := svc.Assign(ctx, admin, task.AssignTaskRequest{EmployeeID: "EMP002", Title: "Audit", Description: "Q2"})
	require.NoError(t, err)
	require.NotNil(t, assigned.Name)
	assert.Equal(t, "Budi", *assigned.Name)

	_, err = svc.Assign(ctx, admin, task.AssignTaskRequest{EmployeeID: "EMP404", Title: "x", Description: "y"})
	assert.ErrorIs(t, err, staff.ErrStaffNotFound)

	_, err = svc.Assign(ctx, ana, task.AssignTaskRequest{EmployeeID: "EMP002", Title: "x", Description: "y"})
	assert.ErrorIs(t, err, identity.ErrForbidden)

	mine, err := svc.ListMine(ctx, budi)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Audit", mine[0].Title)

	_, err = svc.UpdateStatus(ctx, budi, task.UpdateTaskStatusRequest{ID: assigned.ID, Status: task.StatusCompleted})
	require.NoError(t, err)
	_, err = svc.CreateMine(ctx, budi, task.CreateTaskRequest{Title: "Follow up", Description: "call"})
	require.NoError(t, err)

	all, err := svc.ListAll(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	overview, err := svc.Overview(ctx, admin)
	require.NoError(t, err)
	require.Len(t, overview, 2)
	assert.Equal(t, task.OverviewResponse{EmployeeID: "EMP001", EmployeeName: "Ana"}, overview[0])
	assert.Equal(t, task.OverviewResponse{
		EmployeeID: "EMP002", EmployeeName: "Budi",
		TotalTasks: 2, CompletedTasks: 1, PendingTasks: 1,
	}, overview[1])

	_, err = svc.Overview(ctx, ana)
	assert.ErrorIs(t, err, identity.ErrForbidden)
}
