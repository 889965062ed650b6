package auditRepo

import (
	"context"

	"carelink/database"
	"carelink/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ActionRecordRepository persists the provider action audit trail.
type ActionRecordRepository interface {
	Record(ctx context.Context, record models.ActionRecord) error
	GetByBookingID(ctx context.Context, providerID, bookingID string) ([]models.ActionRecord, error)
	GetByProviderID(ctx context.Context, providerID string, limit int64) ([]models.ActionRecord, error)
}

type mongoActionRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoActionRecordRepo returns an ActionRecordRepository backed by MongoDB.
func NewMongoActionRecordRepo() ActionRecordRepository {
	db := database.MongoClient.Database("carelink")
	return &mongoActionRecordRepo{
		coll: db.Collection("action_records"),
	}
}
