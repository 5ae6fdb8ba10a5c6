// Package mail provides the SMTP implementation of the Mailer service.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"acharwala/config"
	"acharwala/internal/domain/entity"
	"acharwala/internal/domain/service"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

type gomailMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger
}

// NewGomailMailer creates a Mailer backed by an SMTP server via gomail.
func NewGomailMailer(cfg *config.Config, logger *slog.Logger) (service.Mailer, error) {
	if cfg.SMTP == nil || cfg.SMTP.Host == "" {
		return nil, errors.New("smtp configuration must be provided")
	}

	dialer := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)

	from := cfg.SMTP.From
	if from == "" {
		from = cfg.SMTP.Username
	}

	return &gomailMailer{
		dialer: dialer,
		from:   from,
		logger: logger,
	}, nil
}

// SendOTP delivers a one-time code to the given address.
func (m *gomailMailer) SendOTP(ctx context.Context, to, name, code, purpose string) error {
	subject := "Your verification code"
	intro := "Use the code below to verify your email address."
	if purpose == string(entity.OTPPurposePasswordReset) {
		subject = "Your password reset code"
		intro = "Use the code below to reset your password."
	}

	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n%s\r\n\r\nCode: %s\r\n\r\nThe code expires shortly. If you did not request it, ignore this mail.\r\n",
		name, intro, code,
	)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	// gomail has no context support; honor cancellation before dialing.
	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "send otp mail cancelled")
	default:
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return errors.Wrap(err, "send otp mail")
	}

	m.logger.InfoContext(ctx, "otp mail sent", slog.String("to", to), slog.String("purpose", purpose))

	return nil
}
