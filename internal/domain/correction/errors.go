package correction

import "errors"

var (
	ErrCorrectionNotFound = errors.New("correction not found")
	ErrAlreadyDecided     = errors.New("correction has already been decided")
	ErrInvalidDecision    = errors.New("status must be approved or rejected")
)
