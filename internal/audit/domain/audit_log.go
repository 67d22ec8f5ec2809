// Package domain holds the audit log entry recorded for security-relevant
// actions.
package domain

import "time"

// Audit actions recorded by the auth service.
const (
	ActionRegister       = "register"
	ActionLoginSuccess   = "login_success"
	ActionLoginFailure   = "login_failure"
	ActionLoginThrottled = "login_throttled"
	ActionTokenRefresh   = "token_refresh"
	ActionTokenReuse     = "token_reuse"
	ActionEmailVerified  = "email_verified"
	ActionLogout         = "logout"
)

// AuditLog is one recorded action. UserID may be a best-effort value for
// failed logins where no account matched.
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	IPAddress string
	UserAgent string
	Metadata  string
	CreatedAt time.Time
}
