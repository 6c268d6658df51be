package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizsuite/identity-service/internal/core/domain"
	"github.com/bizsuite/identity-service/internal/core/ports"
)

const invitationTTL = 7 * 24 * time.Hour

// InvitationService creates and redeems one-time company invitations.
type InvitationService struct {
	invitations ports.InvitationRepository
	users       ports.UserRepository
	members     ports.MembershipRepository
	tx          ports.Transactor
	audit       ports.AuditRecorder
	logger      zerolog.Logger
}

func NewInvitationService(
	invitations ports.InvitationRepository,
	users ports.UserRepository,
	members ports.MembershipRepository,
	tx ports.Transactor,
	audit ports.AuditRecorder,
	logger zerolog.Logger,
) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		users:       users,
		members:     members,
		tx:          tx,
		audit:       audit,
		logger:      logger,
	}
}

// Invite issues a time-limited, single-use token letting email join
// companyID with the given role. The route guard has already checked the
// caller's permission; the service still refuses cross-company invites from
// non-super-admins.
func (s *InvitationService) Invite(ctx context.Context, identity domain.Identity, companyID, email string, role domain.Role) (*domain.Invitation, error) {
	if email == "" || companyID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}
	if !identity.SuperAdmin && identity.CompanyID != companyID {
		return nil, domain.ErrNoAccess
	}

	now := time.Now().UTC()
	inv, err := s.invitations.Create(ctx, &domain.Invitation{
		Email:     strings.ToLower(email),
		CompanyID: companyID,
		Role:      role,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(invitationTTL),
		CreatedBy: identity.UserID,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditRecord{
		UserID:     identity.UserID,
		CompanyID:  companyID,
		ActorEmail: identity.Email,
		ActionType: domain.AuditInviteCreated,
		EntityType: "invitation",
		EntityID:   inv.ID,
		NewValue:   map[string]any{"email": inv.Email, "role": inv.Role},
		OccurredAt: now,
	})
	return inv, nil
}

// Accept redeems the token and grants the invited email its membership edge.
// Redemption is an atomic conditional update, so two concurrent accepts of
// the same token cannot both succeed; the whole grant runs in one
// transaction so a burned token always comes with its edge.
func (s *InvitationService) Accept(ctx context.Context, input ports.AcceptInvitationInput) (*domain.Membership, error) {
	if input.Token == "" {
		return nil, domain.ErrInvitationNotFound
	}

	now := time.Now().UTC()
	var membership *domain.Membership

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.invitations.Redeem(ctx, input.Token, now)
		if err != nil {
			return err
		}

		user, err := s.users.FindByEmail(ctx, inv.Email)
		if errors.Is(err, domain.ErrUserNotFound) {
			if input.Name == "" || input.Password == "" {
				return domain.ErrInvalidInput
			}
			hash, herr := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
			if herr != nil {
				return herr
			}
			user, err = s.users.Create(ctx, &domain.User{
				Email:        inv.Email,
				Name:         input.Name,
				PasswordHash: string(hash),
				Active:       true,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
		}
		if err != nil {
			return err
		}

		existing, err := s.members.ListActiveForUser(ctx, user.ID)
		if err != nil {
			return err
		}

		membership, err = s.members.Upsert(ctx, &domain.Membership{
			UserID:    user.ID,
			CompanyID: inv.CompanyID,
			Role:      inv.Role,
			Primary:   len(existing) == 0,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}

		s.audit.Record(ctx, domain.AuditRecord{
			UserID:     user.ID,
			CompanyID:  inv.CompanyID,
			ActorEmail: user.Email,
			ActionType: domain.AuditInviteAccept,
			EntityType: "invitation",
			EntityID:   inv.ID,
			OccurredAt: now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", membership.UserID).Str("company_id", membership.CompanyID).Msg("invitation accepted")
	return membership, nil
}
