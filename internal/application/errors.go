package application

import (
	"github.com/oksasatya/task-tracker-api/pkg/apperror"
)

var (
	ErrSignupMissingFields = apperror.New(apperror.KindValidation, "name, email and password are required")
	ErrLoginMissingFields  = apperror.New(apperror.KindValidation, "email and password required")
	ErrInvalidRole         = apperror.New(apperror.KindValidation, "role must be admin or intern")
	ErrPasswordTooLong     = apperror.New(apperror.KindValidation, "password must be at most 72 bytes")
	ErrRoleNotPermitted    = apperror.New(apperror.KindAuthorization, "role cannot be self-assigned")
	ErrDuplicateEmail      = apperror.New(apperror.KindDuplicate, "email already registered")
	ErrInvalidEmail        = apperror.New(apperror.KindAuthentication, "invalid email")
	ErrInvalidPassword     = apperror.New(apperror.KindAuthentication, "invalid password")
	ErrInvalidCredentials  = apperror.New(apperror.KindAuthentication, "invalid credentials")
	ErrNoToken             = apperror.New(apperror.KindAuthentication, "no token provided")
	ErrInvalidToken        = apperror.New(apperror.KindAuthentication, "invalid token")
	ErrEmptyTitle          = apperror.New(apperror.KindValidation, "title required")
	ErrInvalidPriority     = apperror.New(apperror.KindValidation, "priority must be Low, Medium or High")
	ErrInvalidStatus       = apperror.New(apperror.KindValidation, "status must be Pending or Completed")
	ErrInvalidDueDate      = apperror.New(apperror.KindValidation, "dueDate must be a YYYY-MM-DD date")
	ErrTaskNotFound        = apperror.New(apperror.KindNotFound, "task not found")
	ErrForbidden           = apperror.New(apperror.KindAuthorization, "not allowed")
)

const (
	errUserStoreUnavailable = "user store unavailable"
	errTaskStoreUnavailable = "task store unavailable"
)

// classify passes classified errors through and turns anything else into an
// internal error with a fixed client message.
func classify(err error, message string) error {
	if err == nil || apperror.Classified(err) {
		return err
	}
	return apperror.Internal(message, err)
}
