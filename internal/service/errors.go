// Package service contains the business logic of the identity service.
package service

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrUsernameExists     = errors.New("username already registered")
	ErrAlreadyVerified    = errors.New("user is already verified")
	ErrNotVerified        = errors.New("please verify your email before logging in")
	ErrInactiveAdmin      = errors.New("admin account is inactive")
	ErrInvalidOTP         = errors.New("invalid or expired OTP code")
	ErrInvalidToken       = errors.New("invalid authentication credentials")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrSelfDemotion       = errors.New("cannot remove super admin status from yourself")
	ErrSelfDeletion       = errors.New("cannot delete yourself")
	// ErrNotificationFailed means the gateway reported a failed send; any
	// identity created in the same request must already be rolled back.
	ErrNotificationFailed = errors.New("failed to send notification email")
)

// ValidationError carries every failed input rule so the caller sees the
// complete list in one response.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Reasons, "; ")
}

// NewValidationError builds a ValidationError from one or more reasons.
func NewValidationError(reasons ...string) *ValidationError {
	return &ValidationError{Reasons: reasons}
}
