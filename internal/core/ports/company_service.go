package ports

import (
	"context"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

// SelectionResult is the outcome of binding a company into the session.
type SelectionResult struct {
	Token       string
	CompanyID   string
	Role        domain.Role
	Permissions []domain.Permission
}

// Profile is the authenticated identity's own view of itself.
type Profile struct {
	User        *domain.User
	CompanyID   string
	Role        domain.Role
	Permissions []domain.Permission
}

type CompanyService interface {
	// AccessibleCompanies enumerates the companies the identity may operate
	// in. Super-admins see every active company with a synthetic super_admin
	// role, ignoring the access edges entirely.
	AccessibleCompanies(ctx context.Context, identity domain.Identity) ([]domain.CompanyAccess, error)
	SelectCompany(ctx context.Context, identity domain.Identity, companyID string) (*SelectionResult, error)
	Profile(ctx context.Context, identity domain.Identity) (*Profile, error)
}
