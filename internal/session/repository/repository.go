// Package repository persists sessions. Implementations return (nil, nil)
// for missing rows and an error only for database failures.
package repository

import (
	"context"
	"time"

	"user-auth-service/internal/session/domain"
)

// Repository is the session persistence port.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	Terminate(ctx context.Context, id string) error
	TerminateAllByUser(ctx context.Context, userID string) error
	UpdateLastActivity(ctx context.Context, id string, at time.Time) error
	DeleteExpired(ctx context.Context) (int64, error)
}
