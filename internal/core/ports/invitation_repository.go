package ports

import (
	"context"
	"time"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

// InvitationRepository persists one-time invitation tokens.
type InvitationRepository interface {
	Create(ctx context.Context, inv *domain.Invitation) (*domain.Invitation, error)
	FindByToken(ctx context.Context, token string) (*domain.Invitation, error)
	// Redeem atomically marks the invitation used, failing with
	// domain.ErrInvitationUsed or domain.ErrInvitationExpired when the
	// conditional update does not apply. Exactly one of two concurrent
	// redemptions of the same token can succeed.
	Redeem(ctx context.Context, token string, now time.Time) (*domain.Invitation, error)
}
