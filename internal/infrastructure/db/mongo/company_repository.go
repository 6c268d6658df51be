package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

const companyCollection = "companies"

type CompanyRepository struct {
	coll *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{coll: db.Collection(companyCollection)}
}

type companyDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Name               string             `bson:"name"`
	TradingName        string             `bson:"trading_name,omitempty"`
	Active             bool               `bson:"active"`
	SubscriptionStatus string             `bson:"subscription_status"`
	EnabledModules     []string           `bson:"enabled_modules,omitempty"`
	CreatedAt          int64              `bson:"created_at"`
	UpdatedAt          int64              `bson:"updated_at"`
}

func (d companyDoc) toDomain() domain.Company {
	return domain.Company{
		ID:                 d.ID.Hex(),
		Name:               d.Name,
		TradingName:        d.TradingName,
		Active:             d.Active,
		SubscriptionStatus: domain.SubscriptionStatus(d.SubscriptionStatus),
		EnabledModules:     d.EnabledModules,
		CreatedAt:          unixToTime(d.CreatedAt),
		UpdatedAt:          unixToTime(d.UpdatedAt),
	}
}

func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*domain.Company, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCompanyNotFound
	}

	var doc companyDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	company := doc.toDomain()
	return &company, nil
}

func (r *CompanyRepository) ListActive(ctx context.Context) ([]domain.Company, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer cursor.Close(ctx)

	var companies []domain.Company
	for cursor.Next(ctx) {
		var doc companyDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode company: %w", err)
		}
		companies = append(companies, doc.toDomain())
	}
	return companies, cursor.Err()
}

func (r *CompanyRepository) Create(ctx context.Context, company *domain.Company) (*domain.Company, error) {
	doc := companyDoc{
		Name:               company.Name,
		TradingName:        company.TradingName,
		Active:             company.Active,
		SubscriptionStatus: string(company.SubscriptionStatus),
		EnabledModules:     company.EnabledModules,
		CreatedAt:          company.CreatedAt.Unix(),
		UpdatedAt:          company.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert company: %w", err)
	}

	created := *company
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}
