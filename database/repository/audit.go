// database/repository/audit.go
package repository

import (
	"context"
	"time"

	"travelbot/database"
	"travelbot/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	auditDatabase   = "travelbot"
	auditCollection = "submission_audit"
)

// AuditRepository persists submission attempts. Partial failures leave the
// travel backend holding a search-stage record with no matching final record,
// and there is no compensation call; this trail is what reconciliation uses.
type AuditRepository interface {
	Record(ctx context.Context, entry models.SubmissionAudit) error
	ListBySession(ctx context.Context, sessionID string) ([]models.SubmissionAudit, error)
}

// MongoAuditRepo implements AuditRepository using MongoDB.
type MongoAuditRepo struct {
	coll *mongo.Collection
}

func NewMongoAuditRepo() *MongoAuditRepo {
	return &MongoAuditRepo{
		coll: database.MongoClient.Database(auditDatabase).Collection(auditCollection),
	}
}

func (repo *MongoAuditRepo) Record(ctx context.Context, entry models.SubmissionAudit) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := repo.coll.InsertOne(ctx, entry)
	return err
}

func (repo *MongoAuditRepo) ListBySession(ctx context.Context, sessionID string) ([]models.SubmissionAudit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := repo.coll.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.SubmissionAudit
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
