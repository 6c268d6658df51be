package ports

import (
	"context"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

// AcceptInvitationInput redeems an invitation token. Name and Password are
// only required when the invited email has no existing user.
type AcceptInvitationInput struct {
	Token    string
	Name     string
	Password string
}

type InvitationService interface {
	Invite(ctx context.Context, identity domain.Identity, companyID, email string, role domain.Role) (*domain.Invitation, error)
	Accept(ctx context.Context, input AcceptInvitationInput) (*domain.Membership, error)
}
