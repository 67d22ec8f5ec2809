package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPSender implements Sender over plain SMTP with optional AUTH.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPSender returns a sender that delivers through the server at addr
// (host:port). username may be empty to skip authentication.
func NewSMTPSender(addr, from, username, password string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		host := addr
		if i := strings.LastIndex(addr, ":"); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{addr: addr, from: from, auth: auth}
}

func (s *SMTPSender) SendVerificationEmail(ctx context.Context, to, token string) error {
	body := fmt.Sprintf("Use the token below to verify your email address.\r\n\r\n%s\r\n", token)
	return s.send(ctx, to, "Verify your email", body)
}

func (s *SMTPSender) SendWelcomeEmail(ctx context.Context, to string) error {
	return s.send(ctx, to, "Welcome", "Your account is ready.\r\n")
}

func (s *SMTPSender) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	body := fmt.Sprintf("Use the token below to reset your password.\r\n\r\n%s\r\n", token)
	return s.send(ctx, to, "Reset your password", body)
}

func (s *SMTPSender) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", s.from, to, subject, body)
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
