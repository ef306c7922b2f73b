package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// GetByStaffAndDate returns nil and no error when the day has no record.
	GetByStaffAndDate(ctx context.Context, staffID string, date string) (*Record, error)

	GetByID(ctx context.Context, id string) (Record, error)

	// Create returns ErrRecordExists when (staff, date) is already taken.
	Create(ctx context.Context, record Record) (Record, error)

	// Patch sets only the fields present in patch, in one write against
	// the stored row. It also returns the photo reference the patch
	// replaced, empty when the photo is unchanged. The resulting row must
	// keep punch-in before punch-out or ErrPunchOrder is returned.
	Patch(ctx context.Context, id string, patch RecordPatch) (Record, string, error)

	// ListAll returns every record with the staff name, newest date first.
	ListAll(ctx context.Context) ([]Record, error)

	// ListByStaffBetween returns the staff member's records with from <= date <= to.
	ListByStaffBetween(ctx context.Context, staffID string, from, to string) ([]Record, error)
}

// RecordPatch lists the fields to overwrite. Nil fields keep their
// stored value.
type RecordPatch struct {
	PunchIn   *time.Time
	PunchOut  *time.Time
	IPAddress *string
	PhotoPath *string

	// OpenOnly applies the patch only while the record has no punch-out,
	// otherwise ErrAlreadyPunchedOut.
	OpenOnly bool
}

// Ledger is the write path used by approved corrections. It bypasses the
// photo requirement of a first punch.
type Ledger interface {
	// Snapshot returns the day's record or nil.
	Snapshot(ctx context.Context, staffID string, date string) (*Record, error)

	// ApplyCorrection merges the non-nil times into the day's record,
	// creating it when absent.
	ApplyCorrection(ctx context.Context, staffID, employeeCode, date string, punchIn, punchOut *time.Time) (Record, error)
}
