package attendance

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_ApplyCorrection(t *testing.T) {
	ctx := context.Background()

	t.Run("out only keeps punch-in", func(t *testing.T) {
		store := memory.NewStore()
		seedDay(t, store, "s1", "EMP001", "2024-05-01", ptrTime(at(9, 0)), nil, strPtr("p.jpg"))

		rec, err := NewLedger(store.Attendance()).ApplyCorrection(ctx, "s1", "EMP001", "2024-05-01", nil, ptrTime(at(18, 0)))
		require.NoError(t, err)
		assert.True(t, rec.PunchIn.Equal(at(9, 0)))
		assert.True(t, rec.PunchOut.Equal(at(18, 0)))
		assert.Equal(t, "p.jpg", *rec.PhotoPath)
	})

	t.Run("in only keeps punch-out", func(t *testing.T) {
		store := memory.NewStore()
		seedDay(t, store, "s1", "EMP001", "2024-05-01", ptrTime(at(9, 30)), ptrTime(at(18, 0)), nil)

		rec, err := NewLedger(store.Attendance()).ApplyCorrection(ctx, "s1", "EMP001", "2024-05-01", ptrTime(at(8, 0)), nil)
		require.NoError(t, err)
		assert.True(t, rec.PunchIn.Equal(at(8, 0)))
		assert.True(t, rec.PunchOut.Equal(at(18, 0)))
	})

	t.Run("creates without photo", func(t *testing.T) {
		store := memory.NewStore()
		rec, err := NewLedger(store.Attendance()).ApplyCorrection(ctx, "s1", "EMP001", "2024-05-01", ptrTime(at(9, 0)), ptrTime(at(17, 0)))
		require.NoError(t, err)
		assert.NotEmpty(t, rec.ID)
		assert.Nil(t, rec.PhotoPath)
		assert.Equal(t, "EMP001", rec.EmployeeCode)
		assert.Equal(t, attendance.StatePunchedInOut, attendance.StateOf(&rec))
	})

	t.Run("rejects inverted times", func(t *testing.T) {
		store := memory.NewStore()
		seedDay(t, store, "s1", "EMP001", "2024-05-01", ptrTime(at(9, 0)), nil, nil)

		_, err := NewLedger(store.Attendance()).ApplyCorrection(ctx, "s1", "EMP001", "2024-05-01", nil, ptrTime(at(8, 0)))
		assert.ErrorIs(t, err, attendance.ErrPunchOrder)
	})

	t.Run("no times", func(t *testing.T) {
		_, err := NewLedger(memory.NewStore().Attendance()).ApplyCorrection(ctx, "s1", "EMP001", "2024-05-01", nil, nil)
		assert.Error(t, err)
	})
}

// lateRecordRepo reports no record once, then lets the real record show up,
// as when a punch lands between the ledger's read and its insert.
type lateRecordRepo struct {
	attendance.AttendanceRepository
	hidden int
}

func (r *lateRecordRepo) GetByStaffAndDate(ctx context.Context, staffID, date string) (*attendance.Record, error) {
	if r.hidden > 0 {
		r.hidden--
		return nil, nil
	}
	return r.AttendanceRepository.GetByStaffAndDate(ctx, staffID, date)
}

func TestLedger_RetriesAsMergeOnConflict(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedDay(t, store, "s1", "EMP001", "2024-05-01", ptrTime(at(9, 0)), nil, strPtr("p.jpg"))

	repo := &lateRecordRepo{AttendanceRepository: store.Attendance(), hidden: 1}
	rec, err := NewLedger(repo).ApplyCorrection(ctx, "s1", "EMP001", "2024-05-01", nil, ptrTime(at(18, 0)))
	require.NoError(t, err)
	assert.True(t, rec.PunchIn.Equal(at(9, 0)))
	assert.True(t, rec.PunchOut.Equal(at(18, 0)))

	records, _ := store.Attendance().ListAll(ctx)
	assert.Len(t, records, 1)
}

func TestLedger_KeepsConcurrentPunchOut(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seeded := seedDay(t, store, "s1", "EMP001", "2024-05-01", ptrTime(at(9, 30)), nil, strPtr("p.jpg"))

	repo := &interleavedRepo{AttendanceRepository: store.Attendance(), between: func() {
		_, _, err := store.Attendance().Patch(ctx, seeded.ID, attendance.RecordPatch{PunchOut: ptrTime(at(18, 0)), OpenOnly: true})
		require.NoError(t, err)
	}}
	rec, err := NewLedger(repo).ApplyCorrection(ctx, "s1", "EMP001", "2024-05-01", ptrTime(at(8, 0)), nil)
	require.NoError(t, err)
	assert.True(t, rec.PunchIn.Equal(at(8, 0)))
	require.NotNil(t, rec.PunchOut)
	assert.True(t, rec.PunchOut.Equal(at(18, 0)))

	stored, err := store.Attendance().GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PunchOut)
	assert.True(t, stored.PunchOut.Equal(at(18, 0)))
	assert.Equal(t, "p.jpg", *stored.PhotoPath)
}

func TestLedger_OrderCheckedAgainstStoredRow(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seeded := seedDay(t, store, "s1", "EMP001", "2024-05-01", ptrTime(at(9, 0)), nil, nil)

	// A punch-out at 10:00 lands after the read, so an 11:00 punch-in no
	// longer fits.
	repo := &interleavedRepo{AttendanceRepository: store.Attendance(), between: func() {
		_, _, err := store.Attendance().Patch(ctx, seeded.ID, attendance.RecordPatch{PunchOut: ptrTime(at(10, 0))})
		require.NoError(t, err)
	}}
	_, err := NewLedger(repo).ApplyCorrection(ctx, "s1", "EMP001", "2024-05-01", ptrTime(at(11, 0)), nil)
	assert.ErrorIs(t, err, attendance.ErrPunchOrder)

	stored, _ := store.Attendance().GetByID(ctx, seeded.ID)
	assert.True(t, stored.PunchIn.Equal(at(9, 0)))
}

func TestLedger_GivesUpAfterRepeatedConflicts(t *testing.T) {
	store := memory.NewStore()
	seedDay(t, store, "s1", "EMP001", "2024-05-01", ptrTime(at(9, 0)), nil, nil)

	repo := &lateRecordRepo{AttendanceRepository: store.Attendance(), hidden: ledgerAttempts}
	_, err := NewLedger(repo).ApplyCorrection(context.Background(), "s1", "EMP001", "2024-05-01", nil, ptrTime(at(18, 0)))
	assert.ErrorIs(t, err, attendance.ErrPunchConflict)
}

func TestLedger_Snapshot(t *testing.T) {
	store := memory.NewStore()
	ledger := NewLedger(store.Attendance())

	snap, err := ledger.Snapshot(context.Background(), "s1", "2024-05-01")
	require.NoError(t, err)
	assert.Nil(t, snap)

	seedDay(t, store, "s1", "EMP001", "2024-05-01", ptrTime(at(9, 0)), nil, nil)
	snap, err = ledger.Snapshot(context.Background(), "s1", "2024-05-01")
	require.NoError(t, err)
	require.NotNil(t, snap)
}
