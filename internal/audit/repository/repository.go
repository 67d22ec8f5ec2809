// Package repository persists audit log entries.
package repository

import (
	"context"

	"user-auth-service/internal/audit/domain"
)

// Repository is the audit persistence port.
type Repository interface {
	Create(ctx context.Context, e *domain.AuditLog) error
	ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error)
}
