package domain

import "farmstand/pkg/errors"

// Domain-specific errors
var (
	ErrNameRequired       = errors.NewValidation("name is required", nil)
	ErrNameLength         = errors.NewValidation("name must be between 2 and 100 characters", nil)
	ErrEmailRequired      = errors.NewValidation("email is required", nil)
	ErrEmailInvalid       = errors.NewValidation("email format is invalid", nil)
	ErrInvalidRole        = errors.NewValidation("role must be 'admin' or 'customer'", nil)
	ErrPasswordTooShort   = errors.NewValidation("password must be at least 6 characters", nil)
	ErrEmailExists        = errors.NewConflict("user with this email already exists")
	ErrInvalidCredentials = errors.NewUnauthorized("invalid email or password")
	ErrAccountDeactivated = errors.NewUnauthorized("account has been deactivated")
)

// NewUserNotFound creates a not found error with the user ID
func NewUserNotFound(id interface{}) error {
	return errors.NewNotFound("user", id)
}
