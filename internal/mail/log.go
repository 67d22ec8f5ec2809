package mail

import (
	"context"
	"log"
)

// LogSender implements Sender by logging instead of delivering. Used in
// development and as a fallback when SMTP is not configured.
type LogSender struct{}

func (LogSender) SendVerificationEmail(_ context.Context, to, token string) error {
	log.Printf("mail: verification email to %s token=%s", to, token)
	return nil
}

func (LogSender) SendWelcomeEmail(_ context.Context, to string) error {
	log.Printf("mail: welcome email to %s", to)
	return nil
}

func (LogSender) SendPasswordResetEmail(_ context.Context, to, token string) error {
	log.Printf("mail: password reset email to %s token=%s", to, token)
	return nil
}
