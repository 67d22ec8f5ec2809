// Package audit records security-relevant actions. Recording is best-effort:
// failures are logged and never surface to the caller.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"user-auth-service/internal/audit/domain"
	auditrepo "user-auth-service/internal/audit/repository"
)

// Recorder writes a single audit entry. Used by the auth code paths.
type Recorder interface {
	Record(ctx context.Context, userID, action, ipAddress, userAgent, metadata string)
}

// Logger implements Recorder using the audit repository.
type Logger struct {
	repo auditrepo.Repository
}

// NewLogger returns a Recorder that persists to repo. repo may be nil; then
// Record is a no-op.
func NewLogger(repo auditrepo.Repository) *Logger {
	return &Logger{repo: repo}
}

// Record writes one audit entry. Errors are logged and not returned.
func (l *Logger) Record(ctx context.Context, userID, action, ipAddress, userAgent, metadata string) {
	if l.repo == nil {
		return
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to record %s for user %s: %v", action, userID, err)
	}
}
