// Package notification is the outbound email boundary of the identity
// service.
package notification

// Kind selects the email template for a send.
type Kind string

const (
	KindVerification  Kind = "verification"
	KindPasswordReset Kind = "password_reset"
)

// Notifier delivers a one-time code to an email address. A false return
// means the code was not delivered; callers must not advance identity state
// on failure. There is no retry here: resends are explicit caller actions.
type Notifier interface {
	Send(kind Kind, email, code, displayName string) bool
}
