package ports

import (
	"context"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

// CompanyRepository persists tenant records.
type CompanyRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Company, error)
	ListActive(ctx context.Context) ([]domain.Company, error)
	Create(ctx context.Context, company *domain.Company) (*domain.Company, error)
}
