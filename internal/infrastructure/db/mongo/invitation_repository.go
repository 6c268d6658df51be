package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

const invitationCollection = "invitations"

type InvitationRepository struct {
	coll *mongo.Collection
}

func NewInvitationRepository(db *mongo.Database) *InvitationRepository {
	return &InvitationRepository{coll: db.Collection(invitationCollection)}
}

type invitationDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	CompanyID string             `bson:"company_id"`
	Role      string             `bson:"role"`
	Token     string             `bson:"token"`
	ExpiresAt int64              `bson:"expires_at"`
	Used      bool               `bson:"used"`
	CreatedBy string             `bson:"created_by"`
	CreatedAt int64              `bson:"created_at"`
}

func (d invitationDoc) toDomain() *domain.Invitation {
	return &domain.Invitation{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		CompanyID: d.CompanyID,
		Role:      domain.Role(d.Role),
		Token:     d.Token,
		ExpiresAt: unixToTime(d.ExpiresAt),
		Used:      d.Used,
		CreatedBy: d.CreatedBy,
		CreatedAt: unixToTime(d.CreatedAt),
	}
}

// invitationIndexes guard the redemption token: unique so a token can never
// name two invitations, plus a lookup index on the invited email.
func invitationIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	}
}

// EnsureIndexes creates the indexes on the invitations collection.
func (r *InvitationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, invitationIndexes())
	return err
}

func (r *InvitationRepository) Create(ctx context.Context, inv *domain.Invitation) (*domain.Invitation, error) {
	doc := invitationDoc{
		Email:     inv.Email,
		CompanyID: inv.CompanyID,
		Role:      string(inv.Role),
		Token:     inv.Token,
		ExpiresAt: inv.ExpiresAt.Unix(),
		Used:      inv.Used,
		CreatedBy: inv.CreatedBy,
		CreatedAt: inv.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert invitation: %w", err)
	}

	created := *inv
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *InvitationRepository) FindByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	var doc invitationDoc
	if err := r.coll.FindOne(ctx, bson.M{"token": token}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("find invitation: %w", err)
	}
	return doc.toDomain(), nil
}

// Redeem flips used=false to used=true in a single conditional update, so of
// two concurrent redemptions exactly one sees the unused document.
func (r *InvitationRepository) Redeem(ctx context.Context, token string, now time.Time) (*domain.Invitation, error) {
	filter := bson.M{
		"token":      token,
		"used":       false,
		"expires_at": bson.M{"$gt": now.Unix()},
	}
	update := bson.M{"$set": bson.M{"used": true}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc invitationDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("redeem invitation: %w", err)
	}

	// The conditional update missed: report why.
	existing, ferr := r.FindByToken(ctx, token)
	if ferr != nil {
		return nil, ferr
	}
	switch {
	case existing.Used:
		return nil, domain.ErrInvitationUsed
	case existing.Expired(now):
		return nil, domain.ErrInvitationExpired
	default:
		return nil, domain.ErrInvitationNotFound
	}
}
