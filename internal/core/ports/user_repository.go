package ports

import (
	"context"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

// UserRepository persists user identity records.
type UserRepository interface {
	// FindActiveByLogin resolves a login identifier to an active user.
	// Email identifiers match case-insensitively, usernames exactly.
	FindActiveByLogin(ctx context.Context, identifier string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
