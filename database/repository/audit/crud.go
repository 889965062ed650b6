package auditRepo

import (
	"context"
	"time"

	"carelink/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Record inserts one action audit entry.
func (r *mongoActionRecordRepo) Record(ctx context.Context, record models.ActionRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := r.coll.InsertOne(ctx, record)
	return err
}

// GetByBookingID returns the audit trail for one booking, oldest first.
func (r *mongoActionRecordRepo) GetByBookingID(ctx context.Context, providerID, bookingID string) ([]models.ActionRecord, error) {
	filter := bson.M{"providerId": providerID, "bookingId": bookingID}
	opts := options.Find().SetSort(bson.M{"createdAt": 1})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.ActionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetByProviderID returns the provider's most recent audit entries.
func (r *mongoActionRecordRepo) GetByProviderID(ctx context.Context, providerID string, limit int64) ([]models.ActionRecord, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.coll.Find(ctx, bson.M{"providerId": providerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.ActionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
