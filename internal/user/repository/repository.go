// Package repository persists users. Implementations return (nil, nil) for
// missing rows and an error only for database failures.
package repository

import (
	"context"

	"user-auth-service/internal/user/domain"
)

// Repository is the user persistence port.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Exists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
}
