package attendance

import "errors"

var (
	// Punch errors
	ErrPhotoRequired     = errors.New("photo required")
	ErrAlreadyPunchedOut = errors.New("already punched in and out today")
	ErrPunchConflict     = errors.New("attendance for today was recorded concurrently, please retry")

	// Ledger errors
	ErrRecordExists         = errors.New("attendance record already exists for this date")
	ErrRecordNotFound       = errors.New("attendance record not found")
	ErrNoRecords            = errors.New("no attendance records found")
	ErrPunchOrder           = errors.New("punch-in must be before punch-out")
	ErrPhotoNotFound        = errors.New("photo not found")
	ErrInvalidExportFormat  = errors.New("unsupported export format")
	ErrInvalidSummaryPeriod = errors.New("month must be in YYYY-MM format")
)
