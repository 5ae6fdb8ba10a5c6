package service

import "context"

// Mailer defines the interface for outgoing transactional email.
type Mailer interface {
	// SendOTP delivers a one-time code to the given address. The
	// purpose selects the subject and wording of the message.
	SendOTP(ctx context.Context, to, name, code, purpose string) error
}
