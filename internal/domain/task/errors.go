package task

import "errors"

var (
	ErrTaskNotFound  = errors.New("task not found or unauthorized")
	ErrInvalidStatus = errors.New("invalid status")
)
