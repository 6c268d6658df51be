package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

const auditCollection = "audit_log"

// AuditStore persists audit records. It sits behind the async dispatcher, so
// writes happen off the request path.
type AuditStore struct {
	coll *mongo.Collection
}

func NewAuditStore(db *mongo.Database) *AuditStore {
	return &AuditStore{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	CompanyID  string         `bson:"company_id,omitempty"`
	UserID     string         `bson:"user_id,omitempty"`
	ActorEmail string         `bson:"actor_email,omitempty"`
	ActionType string         `bson:"action_type"`
	EntityType string         `bson:"entity_type,omitempty"`
	EntityID   string         `bson:"entity_id,omitempty"`
	OldValue   any            `bson:"old_value,omitempty"`
	NewValue   any            `bson:"new_value,omitempty"`
	Metadata   map[string]any `bson:"metadata,omitempty"`
	OccurredAt int64          `bson:"occurred_at"`
}

func (s *AuditStore) Insert(ctx context.Context, rec domain.AuditRecord) error {
	doc := auditDoc{
		CompanyID:  rec.CompanyID,
		UserID:     rec.UserID,
		ActorEmail: rec.ActorEmail,
		ActionType: rec.ActionType,
		EntityType: rec.EntityType,
		EntityID:   rec.EntityID,
		OldValue:   rec.OldValue,
		NewValue:   rec.NewValue,
		Metadata:   rec.Metadata,
		OccurredAt: rec.OccurredAt.Unix(),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}
