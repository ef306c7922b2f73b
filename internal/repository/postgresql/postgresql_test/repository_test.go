package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createStaff(t *testing.T, repo staff.StaffRepository, code, email string) staff.Staff {
	t.Helper()
	s, err := repo.Create(context.Background(), staff.Staff{
		EmployeeCode: code, Name: code, Email: email, Role: identity.RoleEmployee,
		Position: "N/A", LeaveQuota: staff.DefaultLeaveQuota,
	})
	require.NoError(t, err)
	return s
}

func TestStaffRepository(t *testing.T) {
	db := NewTestDatabase(t).DB
	ctx := context.Background()
	repo := postgresql.NewStaffRepository(db)

	ana := createStaff(t, repo, "EMP001", "ana@x.test")

	_, err := repo.Create(ctx, staff.Staff{EmployeeCode: "EMP001", Name: "x", Email: "x@x.test", Role: identity.RoleEmployee})
	assert.ErrorIs(t, err, staff.ErrEmployeeCodeExists)
	_, err = repo.Create(ctx, staff.Staff{EmployeeCode: "EMP002", Name: "x", Email: "ANA@x.test", Role: identity.RoleEmployee})
	assert.ErrorIs(t, err, staff.ErrEmailExists)

	got, err := repo.GetByEmail(ctx, "Ana@X.test")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, got.ID)

	_, err = repo.GetByEmployeeCode(ctx, "nobody")
	assert.ErrorIs(t, err, staff.ErrStaffNotFound)

	require.NoError(t, repo.UpdateLeaveQuota(ctx, ana.ID, 3))
	assert.ErrorIs(t, repo.UpdateLeaveQuota(ctx, "00000000-0000-0000-0000-000000000000", 3), staff.ErrStaffNotFound)

	role := identity.RoleAdmin
	admins, err := repo.List(ctx, &role)
	require.NoError(t, err)
	assert.Empty(t, admins)
	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAttendanceRepository_OneRecordPerDay(t *testing.T) {
	db := NewTestDatabase(t).DB
	ctx := context.Background()
	ana := createStaff(t, postgresql.NewStaffRepository(db), "EMP001", "ana@x.test")
	repo := postgresql.NewAttendanceRepository(db)

	in := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, attendance.Record{StaffID: ana.ID, EmployeeCode: "EMP001", Date: "2024-05-02", PunchIn: &in})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
		} else {
			assert.ErrorIs(t, err, attendance.ErrRecordExists)
		}
	}
	assert.Equal(t, 1, created)

	rec, err := repo.GetByStaffAndDate(ctx, ana.ID, "2024-05-02")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "2024-05-02", rec.Date)

	early := in.Add(-time.Hour)
	_, _, err = repo.Patch(ctx, rec.ID, attendance.RecordPatch{PunchOut: &early})
	assert.ErrorIs(t, err, attendance.ErrPunchOrder)

	missing, err := repo.GetByStaffAndDate(ctx, ana.ID, "2024-05-03")
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].EmployeeName)
	assert.Equal(t, "EMP001", *all[0].EmployeeName)
}

func TestAttendanceRepository_PatchSetsOnlySuppliedFields(t *testing.T) {
	db := NewTestDatabase(t).DB
	ctx := context.Background()
	ana := createStaff(t, postgresql.NewStaffRepository(db), "EMP001", "ana@x.test")
	repo := postgresql.NewAttendanceRepository(db)

	in := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	photo := "attendance/2024-05-02/in.jpg"
	rec, err := repo.Create(ctx, attendance.Record{StaffID: ana.ID, EmployeeCode: "EMP001", Date: "2024-05-02", PunchIn: &in, IPAddress: "10.0.0.1", PhotoPath: &photo})
	require.NoError(t, err)

	out := time.Date(2024, 5, 2, 18, 0, 0, 0, time.UTC)
	outPhoto := "attendance/2024-05-02/out.jpg"
	ip := "10.0.0.2"
	_, replaced, err := repo.Patch(ctx, rec.ID, attendance.RecordPatch{PunchOut: &out, IPAddress: &ip, PhotoPath: &outPhoto, OpenOnly: true})
	require.NoError(t, err)
	assert.Equal(t, photo, replaced)

	// A punch-in correction read before the punch-out must not undo it.
	corrected := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	updated, replaced, err := repo.Patch(ctx, rec.ID, attendance.RecordPatch{PunchIn: &corrected})
	require.NoError(t, err)
	assert.Empty(t, replaced)
	assert.True(t, updated.PunchIn.Equal(corrected))
	require.NotNil(t, updated.PunchOut)
	assert.True(t, updated.PunchOut.Equal(out))
	assert.Equal(t, "10.0.0.2", updated.IPAddress)
	assert.Equal(t, outPhoto, *updated.PhotoPath)

	later := out.Add(time.Hour)
	_, _, err = repo.Patch(ctx, rec.ID, attendance.RecordPatch{PunchOut: &later, OpenOnly: true})
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedOut)

	_, _, err = repo.Patch(ctx, "00000000-0000-0000-0000-000000000000", attendance.RecordPatch{PunchOut: &later})
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

func TestCorrectionRepository_DecideOnce(t *testing.T) {
	db := NewTestDatabase(t).DB
	ctx := context.Background()
	ana := createStaff(t, postgresql.NewStaffRepository(db), "EMP001", "ana@x.test")
	repo := postgresql.NewCorrectionRepository(db)

	in := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	c, err := repo.Create(ctx, correction.Correction{
		StaffID: ana.ID, CorrectionDate: "2024-05-02", RequestedPunchIn: &in,
		Reason: "forgot", Status: correction.StatusPending,
	})
	require.NoError(t, err)

	decided, err := repo.UpdateDecision(ctx, c.ID, correction.StatusApproved, nil, ana.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, correction.StatusApproved, decided.Status)
	require.NotNil(t, decided.EmployeeCode)
	assert.Equal(t, "EMP001", *decided.EmployeeCode)

	_, err = repo.UpdateDecision(ctx, c.ID, correction.StatusRejected, nil, ana.ID, time.Now())
	assert.ErrorIs(t, err, correction.ErrAlreadyDecided)

	_, err = repo.UpdateDecision(ctx, "00000000-0000-0000-0000-000000000000", correction.StatusRejected, nil, ana.ID, time.Now())
	assert.ErrorIs(t, err, correction.ErrCorrectionNotFound)
}

func TestLeaveRepository_Notifications(t *testing.T) {
	db := NewTestDatabase(t).DB
	ctx := context.Background()
	ana := createStaff(t, postgresql.NewStaffRepository(db), "EMP001", "ana@x.test")
	repo := postgresql.NewLeaveRequestRepository(db)

	day := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	l, err := repo.Create(ctx, leave.LeaveRequest{
		StaffID: ana.ID, EmployeeCode: "EMP001", StartDate: day, EndDate: day,
		Reason: "r", Status: leave.StatusPending, Notification: true,
	})
	require.NoError(t, err)

	n, err := repo.CountByStartBetween(ctx, ana.ID, day.AddDate(0, -1, 0), day, leave.CountedStatuses)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	first, err := repo.TakeNotifications(ctx, ana.ID)
	require.NoError(t, err)
	assert.Len(t, first, 1)
	second, err := repo.TakeNotifications(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, second)

	_, err = repo.UpdateStatus(ctx, l.ID, leave.StatusApproved, ana.ID, time.Now())
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, l.ID, leave.StatusRejected, ana.ID, time.Now())
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	removed, err := repo.DeletePending(ctx, l.ID, ana.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestSettingsRepository_Singleton(t *testing.T) {
	db := NewTestDatabase(t).DB
	ctx := context.Background()
	repo := postgresql.NewSettingsRepository(db)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = repo.Upsert(ctx, settings.AdminSettings{AllowedIPs: []string{"10.0.0.1"}})
	require.NoError(t, err)
	updated, err := repo.Upsert(ctx, settings.AdminSettings{AllowedDevices: []string{"10.0.0.9"}})
	require.NoError(t, err)
	assert.Empty(t, updated.AllowedIPs)
	assert.Equal(t, []string{"10.0.0.9"}, updated.AllowedDevices)
}

func TestRefreshAndOTPRepositories(t *testing.T) {
	db := NewTestDatabase(t).DB
	ctx := context.Background()
	ana := createStaff(t, postgresql.NewStaffRepository(db), "EMP001", "ana@x.test")

	tokens := postgresql.NewJWTRepository(db)
	_, _, err := tokens.IsRefreshTokenRevoked(ctx, "unknown")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, tokens.CreateRefreshToken(ctx, ana.ID, "tok", time.Now().Add(time.Hour).Unix(), auth.SessionTrackingRequest{}))
	owner, revoked, err := tokens.IsRefreshTokenRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, owner)
	assert.False(t, revoked)

	require.NoError(t, tokens.RevokeRefreshToken(ctx, "tok"))
	_, revoked, err = tokens.IsRefreshTokenRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)

	otps := postgresql.NewOTPRepository(db)
	_, err = otps.Replace(ctx, auth.PasswordOTP{StaffID: ana.ID, Email: "ana@x.test", CodeHash: "h1", ExpiresAt: time.Now().Add(-time.Minute)})
	require.NoError(t, err)
	latest, err := otps.Replace(ctx, auth.PasswordOTP{StaffID: ana.ID, Email: "ana@x.test", CodeHash: "h2", ExpiresAt: time.Now().Add(time.Minute)})
	require.NoError(t, err)

	require.NoError(t, otps.IncrementAttempts(ctx, latest.ID))
	got, err := otps.GetLatest(ctx, "ANA@x.test")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "h2", got.CodeHash)
	assert.Equal(t, 1, got.Attempts)

	purged, err := otps.DeleteExpired(ctx, time.Now().Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
