package ports

import (
	"context"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

// RegisterInput carries a self-service signup: the user plus their first
// company, created together.
type RegisterInput struct {
	Name        string
	Email       string
	Username    string
	Password    string
	CompanyName string
}

// LoginResult is the outcome of a successful authentication.
type LoginResult struct {
	Token                    string
	User                     *domain.User
	Companies                []domain.CompanyAccess
	SelectedCompany          *domain.CompanyAccess
	DefaultCompanyID         string
	RequiresCompanySelection bool
}

// RegisterResult is the outcome of a successful registration.
type RegisterResult struct {
	Token   string
	User    *domain.User
	Company *domain.Company
}

type AuthService interface {
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	// Logout is idempotent and tolerant: an expired or invalid token still
	// yields success, since the stateless strategy has nothing to revoke.
	Logout(ctx context.Context, token string) error
}
