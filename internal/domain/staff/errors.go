package staff

import "errors"

var (
	ErrStaffNotFound      = errors.New("employee not found")
	ErrEmployeeCodeExists = errors.New("employee ID already exists")
	ErrEmailExists        = errors.New("email already registered")
	ErrCannotDeleteSelf   = errors.New("cannot delete your own account")
)
