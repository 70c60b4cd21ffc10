package staff

import "errors"

// Staff domain errors
var (
	ErrStaffNotFound        = errors.New("staff member not found")
	ErrEmailExists          = errors.New("email already registered")
	ErrAdminRoleRequired    = errors.New("admin role required")
	ErrManagerRoleRequired  = errors.New("manager or admin role required")
	ErrCannotCreateAdmin    = errors.New("only admins may create admin accounts")
	ErrStaffAccountInactive = errors.New("staff account is inactive")
)
