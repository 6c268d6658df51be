package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizsuite/identity-service/internal/core/domain"
	"github.com/bizsuite/identity-service/internal/core/ports"
)

const defaultTokenTTL = 8 * time.Hour

// antiEnumHash is a valid bcrypt digest compared against when the login
// identifier resolves to no user, so a missing account costs the same as a
// wrong password and the two outcomes stay indistinguishable to the caller.
const antiEnumHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService implements login, registration and logout.
type AuthService struct {
	users     ports.UserRepository
	companies ports.CompanyService
	sessions  ports.SessionProvider
	members   ports.MembershipRepository
	orgs      ports.CompanyRepository
	tx        ports.Transactor
	audit     ports.AuditRecorder
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	companies ports.CompanyService,
	sessions ports.SessionProvider,
	members ports.MembershipRepository,
	orgs ports.CompanyRepository,
	tx ports.Transactor,
	audit ports.AuditRecorder,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		users:     users,
		companies: companies,
		sessions:  sessions,
		members:   members,
		orgs:      orgs,
		tx:        tx,
		audit:     audit,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Login authenticates the identifier/password pair and mints a session token.
// With exactly one selectable company the token is already scoped to it; with
// zero or several the token is unscoped and, for several, the caller is told
// to run company selection.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*ports.LoginResult, error) {
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindActiveByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(antiEnumHash), []byte(password))
			s.recordLoginFailure(ctx, identifier)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordLoginFailure(ctx, identifier)
		return nil, domain.ErrInvalidCredentials
	}

	identity := domain.Identity{
		UserID:     user.ID,
		Email:      user.Email,
		Name:       user.Name,
		SuperAdmin: user.SuperAdmin,
	}
	accesses, err := s.companies.AccessibleCompanies(ctx, identity)
	if err != nil {
		return nil, err
	}

	claims := domain.Claims{
		UserID:     user.ID,
		Email:      user.Email,
		Name:       user.Name,
		SuperAdmin: user.SuperAdmin,
	}

	result := &ports.LoginResult{
		User:                     user,
		Companies:                accesses,
		RequiresCompanySelection: len(accesses) >= 2,
	}

	if len(accesses) == 1 {
		if accesses[0].Company.SubscriptionStatus.Selectable() {
			claims.CompanyID = accesses[0].Company.ID
			claims.Role = accesses[0].Role
			result.SelectedCompany = &accesses[0]
		} else {
			// The one company exists but cannot be bound; selection is still
			// the client's next step, where it will see the status payload.
			result.RequiresCompanySelection = true
		}
	}
	if def := domain.DefaultAccess(accesses); def != nil {
		result.DefaultCompanyID = def.Company.ID
	}

	token, err := s.sessions.Issue(ctx, claims, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	result.Token = token

	s.audit.Record(ctx, domain.AuditRecord{
		UserID:     user.ID,
		CompanyID:  claims.CompanyID,
		ActorEmail: user.Email,
		ActionType: domain.AuditLogin,
		EntityType: "user",
		EntityID:   user.ID,
		OccurredAt: time.Now().UTC(),
	})
	s.logger.Info().Str("user_id", user.ID).Bool("scoped", claims.Scoped()).Msg("login")

	return result, nil
}

// Register creates the user, their first company and the owner edge in one
// all-or-nothing transaction, then returns an already-scoped token.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
	if input.Email == "" || input.Password == "" || input.Name == "" || input.CompanyName == "" {
		return nil, domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var user *domain.User
	var company *domain.Company

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err = s.users.Create(ctx, &domain.User{
			Username:     input.Username,
			Email:        strings.ToLower(input.Email),
			Name:         input.Name,
			PasswordHash: string(hash),
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return err
		}

		company, err = s.orgs.Create(ctx, &domain.Company{
			Name:               input.CompanyName,
			Active:             true,
			SubscriptionStatus: domain.SubscriptionTrial,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
		if err != nil {
			return err
		}

		_, err = s.members.Upsert(ctx, &domain.Membership{
			UserID:    user.ID,
			CompanyID: company.ID,
			Role:      domain.RoleOwner,
			Primary:   true,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.Issue(ctx, domain.Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CompanyID: company.ID,
		Role:      domain.RoleOwner,
	}, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditRecord{
		UserID:     user.ID,
		CompanyID:  company.ID,
		ActorEmail: user.Email,
		ActionType: domain.AuditRegister,
		EntityType: "company",
		EntityID:   company.ID,
		OccurredAt: now,
	})
	s.logger.Info().Str("user_id", user.ID).Str("company_id", company.ID).Msg("registered")

	return &ports.RegisterResult{Token: token, User: user, Company: company}, nil
}

// Logout is a best-effort audit event, not a stateful revocation: an expired
// or garbled token still yields success, and calling it twice is harmless.
// The stateful session strategy additionally revokes the server-side row.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.sessions.Verify(ctx, token)
	if err != nil {
		return nil
	}

	if err := s.sessions.Revoke(ctx, token); err != nil {
		s.logger.Warn().Err(err).Str("user_id", claims.UserID).Msg("session revoke failed")
	}

	s.audit.Record(ctx, domain.AuditRecord{
		UserID:     claims.UserID,
		CompanyID:  claims.CompanyID,
		ActorEmail: claims.Email,
		ActionType: domain.AuditLogout,
		EntityType: "user",
		EntityID:   claims.UserID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

func (s *AuthService) recordLoginFailure(ctx context.Context, identifier string) {
	s.audit.Record(ctx, domain.AuditRecord{
		ActorEmail: identifier,
		ActionType: domain.AuditLoginFailed,
		EntityType: "user",
		OccurredAt: time.Now().UTC(),
	})
	s.logger.Warn().Str("identifier", identifier).Msg("failed login attempt")
}
