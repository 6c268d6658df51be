package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

const membershipCollection = "memberships"

type MembershipRepository struct {
	coll *mongo.Collection
}

func NewMembershipRepository(db *mongo.Database) *MembershipRepository {
	return &MembershipRepository{coll: db.Collection(membershipCollection)}
}

type membershipDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	CompanyID string             `bson:"company_id"`
	Role      string             `bson:"role"`
	Primary   bool               `bson:"primary"`
	Active    bool               `bson:"active"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (d membershipDoc) toDomain() domain.Membership {
	return domain.Membership{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		CompanyID: d.CompanyID,
		Role:      domain.Role(d.Role),
		Primary:   d.Primary,
		Active:    d.Active,
		CreatedAt: unixToTime(d.CreatedAt),
		UpdatedAt: unixToTime(d.UpdatedAt),
	}
}

// membershipIndexes back the upsert keyed on (user_id, company_id): the
// unique pair index makes "one edge per pair" a database guarantee, not just
// an upsert convention.
func membershipIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "company_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "active", Value: 1}}},
	}
}

// EnsureIndexes creates the indexes on the memberships collection.
func (r *MembershipRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, membershipIndexes())
	return err
}

func (r *MembershipRepository) ListActiveForUser(ctx context.Context, userID string) ([]domain.Membership, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID, "active": true})
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer cursor.Close(ctx)

	var edges []domain.Membership
	for cursor.Next(ctx) {
		var doc membershipDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode membership: %w", err)
		}
		edges = append(edges, doc.toDomain())
	}
	return edges, cursor.Err()
}

func (r *MembershipRepository) FindActive(ctx context.Context, userID, companyID string) (*domain.Membership, error) {
	var doc membershipDoc
	filter := bson.M{"user_id": userID, "company_id": companyID, "active": true}
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNoAccess
		}
		return nil, fmt.Errorf("find membership: %w", err)
	}
	edge := doc.toDomain()
	return &edge, nil
}

// Upsert keys on (user_id, company_id) so repeated grants update the existing
// edge instead of creating a second active one for the same pair.
func (r *MembershipRepository) Upsert(ctx context.Context, m *domain.Membership) (*domain.Membership, error) {
	filter := bson.M{"user_id": m.UserID, "company_id": m.CompanyID}
	update := bson.M{
		"$set": bson.M{
			"role":       string(m.Role),
			"primary":    m.Primary,
			"active":     m.Active,
			"updated_at": m.UpdatedAt.Unix(),
		},
		"$setOnInsert": bson.M{
			"user_id":    m.UserID,
			"company_id": m.CompanyID,
			"created_at": m.CreatedAt.Unix(),
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc membershipDoc
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("upsert membership: %w", err)
	}
	edge := doc.toDomain()
	return &edge, nil
}
