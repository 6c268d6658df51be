package ports

import (
	"context"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

// MembershipRepository persists the user↔company access edges.
type MembershipRepository interface {
	ListActiveForUser(ctx context.Context, userID string) ([]domain.Membership, error)
	// FindActive returns the single active edge for (userID, companyID),
	// or domain.ErrNoAccess when none exists.
	FindActive(ctx context.Context, userID, companyID string) (*domain.Membership, error)
	// Upsert updates the existing (user, company) edge or inserts a new one,
	// never leaving two active edges for the same pair.
	Upsert(ctx context.Context, m *domain.Membership) (*domain.Membership, error)
}
