package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

// In-memory doubles shared by the service tests.

type stubUserRepo struct {
	users  []*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{}
}

func (r *stubUserRepo) add(u domain.User) *domain.User {
	r.nextID++
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	u.Email = strings.ToLower(u.Email)
	clone := u
	r.users = append(r.users, &clone)
	return &clone
}

func (r *stubUserRepo) FindActiveByLogin(_ context.Context, identifier string) (*domain.User, error) {
	for _, u := range r.users {
		if !u.Active {
			continue
		}
		if strings.Contains(identifier, "@") {
			if u.Email == strings.ToLower(identifier) {
				clone := *u
				return &clone, nil
			}
		} else if u.Username == identifier {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(user.Email) || (user.Username != "" && u.Username == user.Username) {
			return nil, domain.ErrUserExists
		}
	}
	return r.add(*user), nil
}

type stubCompanyRepo struct {
	companies []*domain.Company
	nextID    int
}

func newStubCompanyRepo() *stubCompanyRepo {
	return &stubCompanyRepo{}
}

func (r *stubCompanyRepo) add(c domain.Company) *domain.Company {
	r.nextID++
	if c.ID == "" {
		c.ID = fmt.Sprintf("company-%d", r.nextID)
	}
	clone := c
	r.companies = append(r.companies, &clone)
	return &clone
}

func (r *stubCompanyRepo) FindByID(_ context.Context, id string) (*domain.Company, error) {
	for _, c := range r.companies {
		if c.ID == id {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCompanyNotFound
}

func (r *stubCompanyRepo) ListActive(_ context.Context) ([]domain.Company, error) {
	var out []domain.Company
	for _, c := range r.companies {
		if c.Active {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCompanyRepo) Create(_ context.Context, company *domain.Company) (*domain.Company, error) {
	return r.add(*company), nil
}

type stubMembershipRepo struct {
	edges []*domain.Membership
}

func newStubMembershipRepo() *stubMembershipRepo {
	return &stubMembershipRepo{}
}

func (r *stubMembershipRepo) ListActiveForUser(_ context.Context, userID string) ([]domain.Membership, error) {
	var out []domain.Membership
	for _, e := range r.edges {
		if e.UserID == userID && e.Active {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubMembershipRepo) FindActive(_ context.Context, userID, companyID string) (*domain.Membership, error) {
	for _, e := range r.edges {
		if e.UserID == userID && e.CompanyID == companyID && e.Active {
			clone := *e
			return &clone, nil
		}
	}
	return nil, domain.ErrNoAccess
}

func (r *stubMembershipRepo) Upsert(_ context.Context, m *domain.Membership) (*domain.Membership, error) {
	for _, e := range r.edges {
		if e.UserID == m.UserID && e.CompanyID == m.CompanyID {
			e.Role = m.Role
			e.Primary = m.Primary
			e.Active = m.Active
			e.UpdatedAt = m.UpdatedAt
			clone := *e
			return &clone, nil
		}
	}
	clone := *m
	clone.ID = fmt.Sprintf("edge-%d", len(r.edges)+1)
	r.edges = append(r.edges, &clone)
	out := clone
	return &out, nil
}

type stubInvitationRepo struct {
	invitations []*domain.Invitation
}

func newStubInvitationRepo() *stubInvitationRepo {
	return &stubInvitationRepo{}
}

func (r *stubInvitationRepo) Create(_ context.Context, inv *domain.Invitation) (*domain.Invitation, error) {
	clone := *inv
	clone.ID = fmt.Sprintf("inv-%d", len(r.invitations)+1)
	r.invitations = append(r.invitations, &clone)
	out := clone
	return &out, nil
}

func (r *stubInvitationRepo) FindByToken(_ context.Context, token string) (*domain.Invitation, error) {
	for _, inv := range r.invitations {
		if inv.Token == token {
			clone := *inv
			return &clone, nil
		}
	}
	return nil, domain.ErrInvitationNotFound
}

func (r *stubInvitationRepo) Redeem(ctx context.Context, token string, now time.Time) (*domain.Invitation, error) {
	for _, inv := range r.invitations {
		if inv.Token != token {
			continue
		}
		if inv.Used {
			return nil, domain.ErrInvitationUsed
		}
		if inv.Expired(now) {
			return nil, domain.ErrInvitationExpired
		}
		inv.Used = true
		clone := *inv
		return &clone, nil
	}
	return nil, domain.ErrInvitationNotFound
}

// stubSessions records issued claims and returns deterministic tokens.
type stubSessions struct {
	issued   []domain.Claims
	revoked  []string
	verifyFn func(token string) (domain.Claims, error)
}

func (s *stubSessions) Issue(_ context.Context, claims domain.Claims, _ time.Duration) (string, error) {
	s.issued = append(s.issued, claims)
	return fmt.Sprintf("token-%d", len(s.issued)), nil
}

func (s *stubSessions) Verify(_ context.Context, token string) (domain.Claims, error) {
	if s.verifyFn != nil {
		return s.verifyFn(token)
	}
	return domain.Claims{}, domain.ErrTokenInvalid
}

func (s *stubSessions) Revoke(_ context.Context, token string) error {
	s.revoked = append(s.revoked, token)
	return nil
}

type stubAudit struct {
	records []domain.AuditRecord
}

func (a *stubAudit) Record(_ context.Context, rec domain.AuditRecord) {
	a.records = append(a.records, rec)
}

// stubTx runs the function directly; the register rollback test relies on the
// user insert failing before any company write happens.
type stubTx struct{}

func (stubTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
