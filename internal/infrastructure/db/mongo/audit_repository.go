package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pairprep/identity/internal/core/domain"
)

const auditCollection = "audit_logs"

// AuditRepository persists audit entries. Documents are write-once; there is
// no update or delete path.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	ActorID    string `bson:"actor_id"`
	ActorRole  string `bson:"actor_role"`
	Action     string `bson:"action"`
	TargetType string `bson:"target_type"`
	TargetID   string `bson:"target_id"`
	Status     string `bson:"status"`
	Timestamp  int64  `bson:"timestamp"`
}

func (r *AuditRepository) Insert(ctx context.Context, entry domain.AuditEntry) error {
	doc := auditDoc{
		ActorID:    entry.ActorID,
		ActorRole:  entry.ActorRole,
		Action:     entry.Action,
		TargetType: entry.TargetType,
		TargetID:   entry.TargetID,
		Status:     entry.Status,
		Timestamp:  entry.Timestamp.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
