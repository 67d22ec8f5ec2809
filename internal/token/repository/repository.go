// Package repository persists refresh tokens. Implementations return
// (nil, nil) for missing rows and an error only for database failures.
package repository

import (
	"context"

	"user-auth-service/internal/token/domain"
)

// Repository is the refresh-token persistence port. Lookups go through the
// token hash; raw token strings never reach this layer.
type Repository interface {
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	Create(ctx context.Context, t *domain.RefreshToken) error
	Revoke(ctx context.Context, id string) error
	RevokeAllByUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
	DeleteRevoked(ctx context.Context) (int64, error)
}
