// Package mail sends transactional email to users. Sending is best-effort;
// callers log failures and never fail the surrounding operation.
package mail

import "context"

// Sender is the outbound email port.
type Sender interface {
	SendVerificationEmail(ctx context.Context, to, token string) error
	SendWelcomeEmail(ctx context.Context, to string) error
	SendPasswordResetEmail(ctx context.Context, to, token string) error
}
