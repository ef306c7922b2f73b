package correction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/memory"
	attendancesvc "github.com/cmlabs-hris/ems-backend-go/internal/service/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = identity.Caller{StaffID: "admin-1", EmployeeCode: "ADM001", Role: identity.RoleAdmin}

func at(hour, minute int) *time.Time {
	t := time.Date(2024, 5, 1, hour, minute, 0, 0, time.UTC)
	return &t
}

type fixture struct {
	store    *memory.Store
	svc      correction.CorrectionService
	employee identity.Caller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	member, err := store.Staff().Create(context.Background(), staff.Staff{
		EmployeeCode: "EMP001", Name: "Ana", Email: "ana@x.test", Role: identity.RoleEmployee,
	})
	require.NoError(t, err)

	svc := NewCorrectionService(store.Transactor(), store.Corrections(), store.Staff(),
		attendancesvc.NewLedger(store.Attendance()), time.UTC)
	return &fixture{store: store, svc: svc, employee: member.Caller()}
}

func (f *fixture) seedRecord(t *testing.T, in, out *time.Time) attendance.Record {
	t.Helper()
	rec, err := f.store.Attendance().Create(context.Background(), attendance.Record{
		StaffID: f.employee.StaffID, EmployeeCode: "EMP001", Date: "2024-05-01", PunchIn: in, PunchOut: out,
	})
	require.NoError(t, err)
	return rec
}

func (f *fixture) day(t *testing.T) *attendance.Record {
	t.Helper()
	rec, err := f.store.Attendance().GetByStaffAndDate(context.Background(), f.employee.StaffID, "2024-05-01")
	require.NoError(t, err)
	return rec
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots the current record and derives the date", func(t *testing.T) {
		f := newFixture(t)
		f.seedRecord(t, at(9, 30), nil)

		resp, err := f.svc.Submit(ctx, f.employee, correction.SubmitCorrectionRequest{
			RequestedPunchIn: at(9, 0),
			Reason:           "forgot to punch",
		})
		require.NoError(t, err)
		assert.Equal(t, "2024-05-01", resp.CorrectionDate)
		assert.Equal(t, correction.StatusPending, resp.Status)
		require.NotNil(t, resp.OriginalPunchIn)
		assert.True(t, resp.OriginalPunchIn.Equal(*at(9, 30)))
		assert.Nil(t, resp.OriginalPunchOut)

		// Submission never writes the ledger.
		assert.True(t, f.day(t).PunchIn.Equal(*at(9, 30)))
	})

	t.Run("no original when the day is empty", func(t *testing.T) {
		f := newFixture(t)
		resp, err := f.svc.Submit(ctx, f.employee, correction.SubmitCorrectionRequest{
			CorrectionDate:    "2024-05-01",
			RequestedPunchOut: at(18, 0),
		})
		require.NoError(t, err)
		assert.Nil(t, resp.OriginalPunchIn)
		assert.Nil(t, resp.OriginalPunchOut)
	})

	t.Run("requires a requested time", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Submit(ctx, f.employee, correction.SubmitCorrectionRequest{CorrectionDate: "2024-05-01", Reason: "x"})
		var verrs validator.ValidationErrors
		assert.True(t, errors.As(err, &verrs))
	})
}

func TestDecide_ApproveOutOnlyKeepsPunchIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedRecord(t, at(9, 0), nil)

	sub, err := f.svc.Submit(ctx, f.employee, correction.SubmitCorrectionRequest{RequestedPunchOut: at(18, 0)})
	require.NoError(t, err)

	comment := "ok"
	resp, err := f.svc.Decide(ctx, admin, correction.DecideCorrectionRequest{ID: sub.ID, Status: correction.StatusApproved, AdminComment: &comment})
	require.NoError(t, err)
	assert.Equal(t, correction.StatusApproved, resp.Status)
	assert.Equal(t, "ok", *resp.AdminComment)

	rec := f.day(t)
	assert.True(t, rec.PunchIn.Equal(*at(9, 0)))
	assert.True(t, rec.PunchOut.Equal(*at(18, 0)))
}

func TestDecide_ApproveCreatesRecordWithoutPhoto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sub, err := f.svc.Submit(ctx, f.employee, correction.SubmitCorrectionRequest{RequestedPunchIn: at(9, 0), RequestedPunchOut: at(17, 0)})
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, admin, correction.DecideCorrectionRequest{ID: sub.ID, Status: correction.StatusApproved})
	require.NoError(t, err)

	rec := f.day(t)
	require.NotNil(t, rec)
	assert.Nil(t, rec.PhotoPath)
	assert.Equal(t, "EMP001", rec.EmployeeCode)
	assert.Equal(t, attendance.StatePunchedInOut, attendance.StateOf(rec))
}

func TestDecide_RejectLeavesLedgerAlone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sub, err := f.svc.Submit(ctx, f.employee, correction.SubmitCorrectionRequest{RequestedPunchIn: at(9, 0)})
	require.NoError(t, err)

	resp, err := f.svc.Decide(ctx, admin, correction.DecideCorrectionRequest{ID: sub.ID, Status: correction.StatusRejected})
	require.NoError(t, err)
	assert.Equal(t, correction.StatusRejected, resp.Status)
	assert.Nil(t, f.day(t))
}

func TestDecide_Guards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sub, err := f.svc.Submit(ctx, f.employee, correction.SubmitCorrectionRequest{RequestedPunchIn: at(9, 0)})
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, f.employee, correction.DecideCorrectionRequest{ID: sub.ID, Status: correction.StatusApproved})
	assert.ErrorIs(t, err, identity.ErrForbidden)

	_, err = f.svc.Decide(ctx, admin, correction.DecideCorrectionRequest{ID: sub.ID, Status: "maybe"})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	_, err = f.svc.Decide(ctx, admin, correction.DecideCorrectionRequest{ID: "missing", Status: correction.StatusApproved})
	assert.ErrorIs(t, err, correction.ErrCorrectionNotFound)

	_, err = f.svc.Decide(ctx, admin, correction.DecideCorrectionRequest{ID: sub.ID, Status: correction.StatusRejected})
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, admin, correction.DecideCorrectionRequest{ID: sub.ID, Status: correction.StatusApproved})
	assert.ErrorIs(t, err, correction.ErrAlreadyDecided)
	assert.Nil(t, f.day(t))
}

func TestDecide_LedgerFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedRecord(t, at(9, 0), nil)

	// A punch-out before the stored punch-in cannot be merged.
	sub, err := f.svc.Submit(ctx, f.employee, correction.SubmitCorrectionRequest{RequestedPunchOut: at(8, 0)})
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, admin, correction.DecideCorrectionRequest{ID: sub.ID, Status: correction.StatusApproved})
	assert.ErrorIs(t, err, attendance.ErrPunchOrder)

	stored, err := f.store.Corrections().GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, correction.StatusPending, stored.Status)
	assert.Nil(t, f.day(t).PunchOut)
}

func TestListings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Submit(ctx, f.employee, correction.SubmitCorrectionRequest{RequestedPunchIn: at(9, 0)})
	require.NoError(t, err)
	second, err := f.svc.Submit(ctx, f.employee, correction.SubmitCorrectionRequest{RequestedPunchOut: at(18, 0)})
	require.NoError(t, err)

	all, err := f.svc.ListAll(ctx, admin)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
	assert.Equal(t, "Ana", all[0].Name)
	assert.Equal(t, "EMP001", all[0].EmployeeID)

	_, err = f.svc.ListAll(ctx, f.employee)
	assert.ErrorIs(t, err, identity.ErrForbidden)

	mine, err := f.svc.ListMine(ctx, f.employee)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	other, err := f.svc.ListMine(ctx, identity.Caller{StaffID: "someone-else", Role: identity.RoleEmployee})
	require.NoError(t, err)
	assert.Empty(t, other)
}
