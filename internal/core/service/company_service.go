package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/bizsuite/identity-service/internal/core/domain"
	"github.com/bizsuite/identity-service/internal/core/ports"
)

// CompanyService resolves which companies an identity may operate in and
// binds one into the session.
type CompanyService struct {
	companies ports.CompanyRepository
	members   ports.MembershipRepository
	users     ports.UserRepository
	sessions  ports.SessionProvider
	audit     ports.AuditRecorder
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewCompanyService(
	companies ports.CompanyRepository,
	members ports.MembershipRepository,
	users ports.UserRepository,
	sessions ports.SessionProvider,
	audit ports.AuditRecorder,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *CompanyService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &CompanyService{
		companies: companies,
		members:   members,
		users:     users,
		sessions:  sessions,
		audit:     audit,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// AccessibleCompanies returns the companies the identity may bind, sorted by
// company id for a stable order. Super-admins see every active company with
// the synthetic super_admin role; everyone else sees their active edges
// joined to active companies.
func (s *CompanyService) AccessibleCompanies(ctx context.Context, identity domain.Identity) ([]domain.CompanyAccess, error) {
	var accesses []domain.CompanyAccess

	if identity.SuperAdmin {
		companies, err := s.companies.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		accesses = make([]domain.CompanyAccess, 0, len(companies))
		for _, c := range companies {
			accesses = append(accesses, domain.CompanyAccess{Company: c, Role: domain.RoleSuperAdmin})
		}
	} else {
		edges, err := s.members.ListActiveForUser(ctx, identity.UserID)
		if err != nil {
			return nil, err
		}
		accesses = make([]domain.CompanyAccess, 0, len(edges))
		for _, edge := range edges {
			company, err := s.companies.FindByID(ctx, edge.CompanyID)
			if err != nil {
				if errors.Is(err, domain.ErrCompanyNotFound) {
					continue
				}
				return nil, err
			}
			if !company.Active {
				continue
			}
			accesses = append(accesses, domain.CompanyAccess{
				Company: *company,
				Role:    edge.Role,
				Primary: edge.Primary,
			})
		}
	}

	sort.Slice(accesses, func(i, j int) bool {
		return accesses[i].Company.ID < accesses[j].Company.ID
	})
	return accesses, nil
}

// SelectCompany verifies the identity may operate in companyID and mints a
// new token scoped to it. Suspended and pending subscriptions are rejected
// with the status attached so clients can render a specific message.
func (s *CompanyService) SelectCompany(ctx context.Context, identity domain.Identity, companyID string) (*ports.SelectionResult, error) {
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !company.Active {
		return nil, domain.ErrCompanyInactive
	}

	role := domain.RoleSuperAdmin
	if !identity.SuperAdmin {
		edge, err := s.members.FindActive(ctx, identity.UserID, companyID)
		if err != nil {
			return nil, err
		}
		role = edge.Role
	}

	if !company.SubscriptionStatus.Selectable() {
		return nil, &domain.TenantStateError{CompanyID: company.ID, Status: company.SubscriptionStatus}
	}

	token, err := s.sessions.Issue(ctx, domain.Claims{
		UserID:     identity.UserID,
		Email:      identity.Email,
		Name:       identity.Name,
		CompanyID:  company.ID,
		Role:       role,
		SuperAdmin: identity.SuperAdmin,
	}, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditRecord{
		UserID:     identity.UserID,
		CompanyID:  company.ID,
		ActorEmail: identity.Email,
		ActionType: domain.AuditSelectCompany,
		EntityType: "company",
		EntityID:   company.ID,
		OccurredAt: time.Now().UTC(),
	})
	s.logger.Info().Str("user_id", identity.UserID).Str("company_id", company.ID).Str("role", string(role)).Msg("company selected")

	return &ports.SelectionResult{
		Token:       token,
		CompanyID:   company.ID,
		Role:        role,
		Permissions: domain.PermissionsFor(role),
	}, nil
}

// Profile returns the identity's own user record plus the effective role and
// permission set of the current session scope.
func (s *CompanyService) Profile(ctx context.Context, identity domain.Identity) (*ports.Profile, error) {
	user, err := s.users.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	profile := &ports.Profile{
		User:      user,
		CompanyID: identity.CompanyID,
		Role:      identity.Role,
	}
	if identity.SuperAdmin && profile.Role == "" {
		profile.Role = domain.RoleSuperAdmin
	}
	if profile.Role != "" {
		profile.Permissions = domain.PermissionsFor(profile.Role)
	}
	return profile, nil
}
