package models

import "time"

// Audit event types recorded by the identity subsystem.
const (
	EventSignup                 = "signup"
	EventLogin                  = "login"
	EventAdminLogin             = "admin_login"
	EventEmailVerified          = "email_verified"
	EventOTPResent              = "otp_resent"
	EventPasswordResetRequested = "password_reset_requested"
	EventPasswordResetCompleted = "password_reset_completed"
	EventAdminPasswordChange    = "admin_password_change"
	EventAdminCreated           = "admin_created"
	EventAdminUpdated           = "admin_updated"
	EventAdminDeleted           = "admin_deleted"
	EventUserStatusUpdated      = "user_status_updated"
	EventEnquiryStatusUpdated   = "enquiry_status_updated"
)

// AuditEvent is an append-only record of a security-relevant action. The
// identity subsystem only ever writes these; reporting reads them elsewhere.
type AuditEvent struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:50;not null"`
	Description string    `json:"description" gorm:"not null"`
	UserEmail   string    `json:"user_email,omitempty" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for the AuditEvent model.
func (AuditEvent) TableName() string {
	return "audit_events"
}
