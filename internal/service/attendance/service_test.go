package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/admission"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	employee = identity.Caller{StaffID: "staff-e", EmployeeCode: "EMP001", Role: identity.RoleEmployee}
	admin    = identity.Caller{StaffID: "staff-a", EmployeeCode: "ADM001", Role: identity.RoleAdmin}
	loopback = []string{"127.0.0.1"}
)

func strPtr(s string) *string { return &s }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 1, hour, minute, 0, 0, time.UTC)
}

func newService(store *memory.Store, c *clock) *AttendanceServiceImpl {
	return newAttendanceService(store.Attendance(), store.Settings(), time.UTC, c.now)
}

func TestPunch_DayScenario(t *testing.T) {
	store := memory.NewStore()
	c := &clock{t: at(9, 0)}
	svc := newService(store, c)
	ctx := context.Background()

	resp, err := svc.Punch(ctx, employee, attendance.PunchRequest{Addresses: loopback, PhotoPath: strPtr("attendance/2024-05-01/p.jpg")})
	require.NoError(t, err)
	assert.Equal(t, attendance.PunchIn, resp.Type)
	assert.Equal(t, "Punch In successful", resp.Message)
	assert.Equal(t, "2024-05-01", resp.Date)

	c.t = at(18, 0)
	resp, err = svc.Punch(ctx, employee, attendance.PunchRequest{Addresses: loopback})
	require.NoError(t, err)
	assert.Equal(t, attendance.PunchOut, resp.Type)

	rec, err := store.Attendance().GetByStaffAndDate(ctx, employee.StaffID, "2024-05-01")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.PunchIn.Equal(at(9, 0)))
	assert.True(t, rec.PunchOut.Equal(at(18, 0)))
	assert.Equal(t, "attendance/2024-05-01/p.jpg", *rec.PhotoPath)
	assert.Equal(t, "127.0.0.1", rec.IPAddress)

	c.t = at(18, 30)
	_, err = svc.Punch(ctx, employee, attendance.PunchRequest{Addresses: loopback, PhotoPath: strPtr("other.jpg")})
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedOut)

	after, err := store.Attendance().GetByStaffAndDate(ctx, employee.StaffID, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, rec.PunchOut, after.PunchOut)
	assert.Equal(t, rec.PhotoPath, after.PhotoPath)

	records, err := store.Attendance().ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPunch_PhotoRequiredOnFirstPunch(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store, &clock{t: at(9, 0)})

	for _, photo := range []*string{nil, strPtr("")} {
		_, err := svc.Punch(context.Background(), employee, attendance.PunchRequest{Addresses: loopback, PhotoPath: photo})
		assert.ErrorIs(t, err, attendance.ErrPhotoRequired)
	}

	rec, err := store.Attendance().GetByStaffAndDate(context.Background(), employee.StaffID, "2024-05-01")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestPunch_OutReplacesPhotoWhenGiven(t *testing.T) {
	store := memory.NewStore()
	c := &clock{t: at(9, 0)}
	svc := newService(store, c)
	ctx := context.Background()

	_, err := svc.Punch(ctx, employee, attendance.PunchRequest{Addresses: loopback, PhotoPath: strPtr("in.jpg")})
	require.NoError(t, err)
	c.t = at(17, 0)
	_, err = svc.Punch(ctx, employee, attendance.PunchRequest{Addresses: loopback, PhotoPath: strPtr("out.jpg")})
	require.NoError(t, err)

	resp, err := svc.Punch(ctx, employee, attendance.PunchRequest{Addresses: loopback, PhotoPath: strPtr("out.jpg")})
	require.NoError(t, err)
	assert.Equal(t, "in.jpg", resp.ReplacedPhotoPath)

	rec, _ := store.Attendance().GetByStaffAndDate(ctx, employee.StaffID, "2024-05-01")
	assert.Equal(t, "out.jpg", *rec.PhotoPath)
}

func TestPunch_OutWithoutPhotoReplacesNothing(t *testing.T) {
	store := memory.NewStore()
	c := &clock{t: at(9, 0)}
	svc := newService(store, c)
	ctx := context.Background()

	_, err := svc.Punch(ctx, employee, attendance.PunchRequest{Addresses: loopback, PhotoPath: strPtr("in.jpg")})
	require.NoError(t, err)
	c.t = at(17, 0)
	resp, err := svc.Punch(ctx, employee, attendance.PunchRequest{Addresses: loopback})
	require.NoError(t, err)
	assert.Empty(t, resp.ReplacedPhotoPath)

	rec, _ := store.Attendance().GetByStaffAndDate(ctx, employee.StaffID, "2024-05-01")
	assert.Equal(t, "in.jpg", *rec.PhotoPath)
}

func TestAdmit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_, err := store.Settings().Upsert(ctx, settings.AdminSettings{AllowedIPs: []string{"10.0.0.5"}})
	require.NoError(t, err)
	svc := newService(store, &clock{t: at(9, 0)})

	result, err := svc.Admit(ctx, employee, []string{"10.0.0.5"})
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.True(t, result.IPAllowed)

	_, err = svc.Admit(ctx, employee, []string{"203.0.113.9"})
	var denied *admission.DeniedError
	require.True(t, errors.As(err, &denied))
	assert.False(t, denied.Result.Allowed)

	_, err = svc.Admit(ctx, identity.Caller{}, loopback)
	assert.ErrorIs(t, err, identity.ErrUnauthenticated)

	records, _ := store.Attendance().ListAll(ctx)
	assert.Empty(t, records)
}

func TestPunch_Admission(t *testing.T) {
	ctx := context.Background()

	t.Run("settings missing", func(t *testing.T) {
		svc := newService(memory.NewStore(), &clock{t: at(9, 0)})
		_, err := svc.Punch(ctx, employee, attendance.PunchRequest{Addresses: []string{"10.0.0.5"}, PhotoPath: strPtr("p.jpg")})
		assert.ErrorIs(t, err, settings.ErrSettingsNotConfigured)
	})

	t.Run("denied carries diagnostics", func(t *testing.T) {
		store := memory.NewStore()
		_, err := store.Settings().Upsert(ctx, settings.AdminSettings{AllowedIPs: []string{"10.0.0.5"}})
		require.NoError(t, err)
		svc := newService(store, &clock{t: at(9, 0)})

		_, err = svc.Punch(ctx, employee, attendance.PunchRequest{Addresses: []string{"203.0.113.9"}, PhotoPath: strPtr("p.jpg")})
		var denied *admission.DeniedError
		require.True(t, errors.As(err, &denied))
		assert.Equal(t, "203.0.113.9", denied.Result.MatchedAddress)
		assert.False(t, denied.Result.IPAllowed)
		assert.False(t, denied.Result.DeviceAllowed)

		rec, _ := store.Attendance().GetByStaffAndDate(ctx, employee.StaffID, "2024-05-01")
		assert.Nil(t, rec)
	})

	t.Run("any forwarded address matches", func(t *testing.T) {
		store := memory.NewStore()
		_, err := store.Settings().Upsert(ctx, settings.AdminSettings{AllowedIPs: []string{"10.0.0.5"}})
		require.NoError(t, err)
		svc := newService(store, &clock{t: at(9, 0)})

		_, err = svc.Punch(ctx, employee, attendance.PunchRequest{Addresses: []string{"203.0.113.9", "::ffff:10.0.0.5"}, PhotoPath: strPtr("p.jpg")})
		require.NoError(t, err)

		rec, _ := store.Attendance().GetByStaffAndDate(ctx, employee.StaffID, "2024-05-01")
		require.NotNil(t, rec)
		assert.Equal(t, "203.0.113.9", rec.IPAddress)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := newService(memory.NewStore(), &clock{t: at(9, 0)})
		_, err := svc.Punch(ctx, identity.Caller{}, attendance.PunchRequest{Addresses: loopback})
		assert.ErrorIs(t, err, identity.ErrUnauthenticated)
	})
}

// racingRepo hides the existing record from the first lookup, as a
// concurrent first punch would.
type racingRepo struct {
	attendance.AttendanceRepository
}

func (r racingRepo) GetByStaffAndDate(ctx context.Context, staffID, date string) (*attendance.Record, error) {
	return nil, nil
}

// interleavedRepo runs between once, right after the first lookup
// returns, so another writer lands between a read and the write that
// follows it.
type interleavedRepo struct {
	attendance.AttendanceRepository
	between func()
}

func (r *interleavedRepo) GetByStaffAndDate(ctx context.Context, staffID, date string) (*attendance.Record, error) {
	rec, err := r.AttendanceRepository.GetByStaffAndDate(ctx, staffID, date)
	if r.between != nil {
		between := r.between
		r.between = nil
		between()
	}
	return rec, err
}

func TestPunch_OutKeepsConcurrentCorrection(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seeded := seedDay(t, store, employee.StaffID, employee.EmployeeCode, "2024-05-01", ptrTime(at(9, 30)), nil, strPtr("p.jpg"))

	repo := &interleavedRepo{AttendanceRepository: store.Attendance(), between: func() {
		_, _, err := store.Attendance().Patch(ctx, seeded.ID, attendance.RecordPatch{PunchIn: ptrTime(at(8, 0))})
		require.NoError(t, err)
	}}
	svc := newAttendanceService(repo, store.Settings(), time.UTC, (&clock{t: at(17, 0)}).now)

	_, err := svc.Punch(ctx, employee, attendance.PunchRequest{Addresses: loopback})
	require.NoError(t, err)

	rec, _ := store.Attendance().GetByID(ctx, seeded.ID)
	assert.True(t, rec.PunchIn.Equal(at(8, 0)))
	assert.True(t, rec.PunchOut.Equal(at(17, 0)))
}

func TestPunch_OutLosesToConcurrentPunchOut(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seeded := seedDay(t, store, employee.StaffID, employee.EmployeeCode, "2024-05-01", ptrTime(at(9, 0)), nil, strPtr("p.jpg"))

	repo := &interleavedRepo{AttendanceRepository: store.Attendance(), between: func() {
		_, _, err := store.Attendance().Patch(ctx, seeded.ID, attendance.RecordPatch{PunchOut: ptrTime(at(16, 0)), OpenOnly: true})
		require.NoError(t, err)
	}}
	svc := newAttendanceService(repo, store.Settings(), time.UTC, (&clock{t: at(17, 0)}).now)

	_, err := svc.Punch(ctx, employee, attendance.PunchRequest{Addresses: loopback, PhotoPath: strPtr("late.jpg")})
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedOut)

	rec, _ := store.Attendance().GetByID(ctx, seeded.ID)
	assert.True(t, rec.PunchOut.Equal(at(16, 0)))
	assert.Equal(t, "p.jpg", *rec.PhotoPath)
}

func TestPunch_ConcurrentFirstPunchIsConflict(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	_, err := store.Attendance().Create(ctx, attendance.Record{StaffID: employee.StaffID, Date: "2024-05-01", PunchIn: ptrTime(at(8, 59))})
	require.NoError(t, err)

	svc := newAttendanceService(racingRepo{store.Attendance()}, store.Settings(), time.UTC, (&clock{t: at(9, 0)}).now)
	_, err = svc.Punch(ctx, employee, attendance.PunchRequest{Addresses: loopback, PhotoPath: strPtr("p.jpg")})
	assert.ErrorIs(t, err, attendance.ErrPunchConflict)

	records, _ := store.Attendance().ListAll(ctx)
	assert.Len(t, records, 1)
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestStatus(t *testing.T) {
	store := memory.NewStore()
	c := &clock{t: at(9, 0)}
	svc := newService(store, c)
	ctx := context.Background()

	st, err := svc.Status(ctx, employee)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", st.Date)
	assert.Nil(t, st.PunchIn)
	assert.Nil(t, st.PunchOut)

	_, err = svc.Punch(ctx, employee, attendance.PunchRequest{Addresses: loopback, PhotoPath: strPtr("p.jpg")})
	require.NoError(t, err)

	st, err = svc.Status(ctx, employee)
	require.NoError(t, err)
	require.NotNil(t, st.PunchIn)
	assert.Equal(t, "2024-05-01T09:00:00Z", *st.PunchIn)
	assert.Nil(t, st.PunchOut)
}

func TestStatus_UsesServerCalendar(t *testing.T) {
	store := memory.NewStore()
	jakarta := time.FixedZone("WIB", 7*3600)
	// 2024-04-30 20:00 UTC is already 2024-05-01 in UTC+7.
	svc := newAttendanceService(store.Attendance(), store.Settings(), jakarta, func() time.Time {
		return time.Date(2024, 4, 30, 20, 0, 0, 0, time.UTC)
	})

	st, err := svc.Status(context.Background(), employee)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", st.Date)
}

func seedDay(t *testing.T, store *memory.Store, staffID, code, date string, in, out *time.Time, photo *string) attendance.Record {
	t.Helper()
	rec, err := store.Attendance().Create(context.Background(), attendance.Record{
		StaffID: staffID, EmployeeCode: code, Date: date, PunchIn: in, PunchOut: out, IPAddress: "10.0.0.5", PhotoPath: photo,
	})
	require.NoError(t, err)
	return rec
}

func TestListRecordsAndExport(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	member, err := store.Staff().Create(ctx, staff.Staff{EmployeeCode: "EMP001", Name: "Ana", Email: "ana@x.test", Role: identity.RoleEmployee})
	require.NoError(t, err)
	svc := newService(store, &clock{t: at(9, 0)})

	_, err = svc.Export(ctx, admin, "")
	assert.ErrorIs(t, err, attendance.ErrNoRecords)

	seedDay(t, store, member.ID, "EMP001", "2024-05-01", ptrTime(at(9, 0)), ptrTime(at(17, 0)), nil)
	seedDay(t, store, member.ID, "", "2024-05-02", ptrTime(at(9, 0).AddDate(0, 0, 1)), nil, nil)

	_, err = svc.ListRecords(ctx, employee)
	assert.ErrorIs(t, err, identity.ErrForbidden)

	list, err := svc.ListRecords(ctx, admin)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-05-02", list[0].Date)
	assert.Equal(t, "Ana", *list[0].EmployeeName)

	file, err := svc.Export(ctx, admin, "")
	require.NoError(t, err)
	assert.Equal(t, export.ContentTypeCSV, file.ContentType)
	body := string(file.Content)
	assert.Contains(t, body, "id,employee_id,date,punch_in,punch_out,ip")
	assert.Contains(t, body, "N/A,2024-05-02")
	assert.Contains(t, body, "EMP001,2024-05-01,2024-05-01T09:00:00Z,2024-05-01T17:00:00Z,10.0.0.5")

	file, err = svc.Export(ctx, admin, export.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, export.ContentTypeXLSX, file.ContentType)

	_, err = svc.Export(ctx, admin, "pdf")
	assert.ErrorIs(t, err, attendance.ErrInvalidExportFormat)

	_, err = svc.Export(ctx, employee, "")
	assert.ErrorIs(t, err, identity.ErrForbidden)
}

func TestPhotoPath(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	svc := newService(store, &clock{t: at(9, 0)})

	withPhoto := seedDay(t, store, "s1", "EMP001", "2024-05-01", ptrTime(at(9, 0)), nil, strPtr("attendance/a.jpg"))
	withoutPhoto := seedDay(t, store, "s2", "EMP002", "2024-05-01", ptrTime(at(9, 0)), nil, nil)

	path, err := svc.PhotoPath(ctx, admin, withPhoto.ID)
	require.NoError(t, err)
	assert.Equal(t, "attendance/a.jpg", path)

	_, err = svc.PhotoPath(ctx, admin, withoutPhoto.ID)
	assert.ErrorIs(t, err, attendance.ErrPhotoNotFound)

	_, err = svc.PhotoPath(ctx, admin, "missing")
	assert.ErrorIs(t, err, attendance.ErrPhotoNotFound)

	_, err = svc.PhotoPath(ctx, employee, withPhoto.ID)
	assert.ErrorIs(t, err, identity.ErrForbidden)
}

func TestSummary(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	svc := newService(store, &clock{t: at(9, 0)})

	seedDay(t, store, employee.StaffID, "EMP001", "2024-05-01", ptrTime(at(9, 0)), ptrTime(at(17, 20)), nil)
	d2 := at(9, 0).AddDate(0, 0, 1)
	seedDay(t, store, employee.StaffID, "EMP001", "2024-05-02", &d2, ptrTime(d2.Add(4*time.Hour)), nil)
	d3 := at(9, 0).AddDate(0, 0, 2)
	seedDay(t, store, employee.StaffID, "EMP001", "2024-05-03", &d3, nil, nil)
	seedDay(t, store, employee.StaffID, "EMP001", "2024-06-01", ptrTime(at(9, 0).AddDate(0, 1, 0)), ptrTime(at(10, 0).AddDate(0, 1, 0)), nil)

	sum, err := svc.Summary(ctx, employee, "2024-05")
	require.NoError(t, err)
	require.Len(t, sum.Days, 3)
	assert.Equal(t, "2024-05-01", sum.Days[0].Date)
	assert.Equal(t, 8.33, sum.Days[0].Hours)
	assert.Equal(t, 4.0, sum.Days[1].Hours)
	assert.Equal(t, 0.0, sum.Days[2].Hours)
	assert.Equal(t, 12.33, sum.TotalHours)

	_, err = svc.Summary(ctx, employee, "May 2024")
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}
