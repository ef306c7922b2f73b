package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrCannotCancel                 = errors.New("cannot cancel this leave")
	ErrYearlyLimitReached           = errors.New("leave limit (20/year) reached")
)
